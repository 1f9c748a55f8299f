package core

import "math"

// GridBounds is the geographic bounding box of a graph or of a part of one.
type GridBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Coords is a plain latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CompassDirection locates a point relative to a set of grid bounds.
type CompassDirection int

const (
	DirectionZero CompassDirection = iota
	DirectionNorth
	DirectionNorthEast
	DirectionEast
	DirectionSouthEast
	DirectionSouth
	DirectionSouthWest
	DirectionWest
	DirectionNorthWest
)

func (d CompassDirection) String() string {
	switch d {
	case DirectionNorth:
		return "N"
	case DirectionNorthEast:
		return "NE"
	case DirectionEast:
		return "E"
	case DirectionSouthEast:
		return "SE"
	case DirectionSouth:
		return "S"
	case DirectionSouthWest:
		return "SW"
	case DirectionWest:
		return "W"
	case DirectionNorthWest:
		return "NW"
	default:
		return "0"
	}
}

// GridBounds returns the element-wise min/max latitude and longitude over all
// nodes. For an empty node set every bound is NaN; that is a documented
// degenerate case, not an error.
func (g *Graph) GridBounds() GridBounds {
	if len(g.Nodes) == 0 {
		nan := math.NaN()
		return GridBounds{MinLat: nan, MaxLat: nan, MinLon: nan, MaxLon: nan}
	}

	gb := GridBounds{
		MinLat: g.Nodes[0].Lat,
		MaxLat: g.Nodes[0].Lat,
		MinLon: g.Nodes[0].Lon,
		MaxLon: g.Nodes[0].Lon,
	}
	for _, n := range g.Nodes[1:] {
		gb.MinLat = math.Min(gb.MinLat, n.Lat)
		gb.MaxLat = math.Max(gb.MaxLat, n.Lat)
		gb.MinLon = math.Min(gb.MinLon, n.Lon)
		gb.MaxLon = math.Max(gb.MaxLon, n.Lon)
	}
	return gb
}

// Center returns the midpoint of the bounds, used as the initial view center
// by presentation layers.
func (gb GridBounds) Center() Coords {
	return Coords{
		Lat: (gb.MinLat + gb.MaxLat) / 2,
		Lon: (gb.MinLon + gb.MaxLon) / 2,
	}
}

// ContainedIn reports whether these bounds lie entirely within other.
func (gb GridBounds) ContainedIn(other GridBounds) bool {
	return gb.MinLat >= other.MinLat && gb.MaxLat <= other.MaxLat &&
		gb.MinLon >= other.MinLon && gb.MaxLon <= other.MaxLon
}

// In reports whether the node lies within the given grid bounds.
func (n Node) In(gb GridBounds) bool {
	return n.Lat >= gb.MinLat && n.Lat <= gb.MaxLat &&
		n.Lon >= gb.MinLon && n.Lon <= gb.MaxLon
}

// RelativeDirection returns the compass direction of the node relative to the
// given grid bounds, or DirectionZero when the node lies inside them.
func (n Node) RelativeDirection(gb GridBounds) CompassDirection {
	switch {
	case n.Lon >= gb.MinLon && n.Lon <= gb.MaxLon && n.Lat > gb.MaxLat:
		return DirectionNorth
	case n.Lon > gb.MaxLon && n.Lat > gb.MaxLat:
		return DirectionNorthEast
	case n.Lon > gb.MaxLon && n.Lat >= gb.MinLat && n.Lat <= gb.MaxLat:
		return DirectionEast
	case n.Lon > gb.MaxLon && n.Lat < gb.MinLat:
		return DirectionSouthEast
	case n.Lon >= gb.MinLon && n.Lon <= gb.MaxLon && n.Lat < gb.MinLat:
		return DirectionSouth
	case n.Lon < gb.MinLon && n.Lat < gb.MinLat:
		return DirectionSouthWest
	case n.Lon < gb.MinLon && n.Lat >= gb.MinLat && n.Lat <= gb.MaxLat:
		return DirectionWest
	case n.Lon < gb.MinLon && n.Lat > gb.MaxLat:
		return DirectionNorthWest
	default:
		return DirectionZero
	}
}
