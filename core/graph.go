package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Node is a graph node with an id and a geographic position.
type Node struct {
	ID  int     `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Edge is a directed edge with a non-negative integer weight.
type Edge struct {
	Src  int `json:"src"`
	Tgt  int `json:"tgt"`
	Dist int `json:"dist"`
}

// Graph is a directed graph in CSR (offset array) form. Edges are grouped by
// ascending source id; Offsets[v]..Offsets[v+1] index the outgoing edges of v.
//
// A Graph is built once by ParseGraph and never mutated afterwards, so a
// single instance may be shared read-only by any number of concurrently
// running simulations without locking.
type Graph struct {
	Nodes    []Node
	Edges    []Edge
	Offsets  []int
	NumNodes int
	NumEdges int
}

// LoadGraph reads a graph file from disk. See ParseGraph for the format.
func LoadGraph(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()

	g, err := ParseGraph(f)
	if err != nil {
		return nil, fmt.Errorf("parse graph %s: %w", path, err)
	}
	return g, nil
}

// ParseGraph parses the line-oriented graph format: leading '#' comment and
// blank lines, a node-count line, an edge-count line, then one line per node
// ("<id> <osm-id> <lat> <lon> ...") and one line per edge
// ("<src> <tgt> <dist> ...").
//
// Edge lines must already be grouped by ascending source id; the offsets
// table is filled in a single pass under that assumption and is silently
// wrong if it does not hold. All parse and I/O failures abort construction;
// this runs once at load time, never in the simulation hot path.
func ParseGraph(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	nextLine := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("line %d: %w", lineNo+1, io.ErrUnexpectedEOF)
		}
		lineNo++
		return sc.Text(), nil
	}

	// Header: skip comments and blank separator lines; the first remaining
	// line is the node count, the next one the edge count.
	var header string
	for {
		line, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("parse header: %w", err)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		header = trimmed
		break
	}

	numNodes, err := strconv.Atoi(header)
	if err != nil {
		return nil, fmt.Errorf("parse node count in line %d: %w", lineNo, err)
	}
	line, err := nextLine()
	if err != nil {
		return nil, fmt.Errorf("parse edge count: %w", err)
	}
	numEdges, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("parse edge count in line %d: %w", lineNo, err)
	}

	g := &Graph{
		Nodes:    make([]Node, 0, numNodes),
		Edges:    make([]Edge, 0, numEdges),
		Offsets:  make([]int, numNodes+1),
		NumNodes: numNodes,
		NumEdges: numEdges,
	}

	for i := 0; i < numNodes; i++ {
		line, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("parse nodes: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("parse node in line %d: want at least 4 fields, got %d", lineNo, len(fields))
		}
		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse node latitude in line %d: %w", lineNo, err)
		}
		lon, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parse node longitude in line %d: %w", lineNo, err)
		}
		g.Nodes = append(g.Nodes, Node{ID: i, Lat: lat, Lon: lon})
	}

	lastSrc := -1
	for i := 0; i < numEdges; i++ {
		line, err := nextLine()
		if err != nil {
			return nil, fmt.Errorf("parse edges: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("parse edge in line %d: want at least 3 fields, got %d", lineNo, len(fields))
		}
		src, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("parse edge source in line %d: %w", lineNo, err)
		}
		tgt, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("parse edge target in line %d: %w", lineNo, err)
		}
		dist, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("parse edge weight in line %d: %w", lineNo, err)
		}
		if src < 0 || src >= numNodes || tgt < 0 || tgt >= numNodes {
			return nil, fmt.Errorf("parse edge in line %d: endpoint out of range [0,%d)", lineNo, numNodes)
		}
		if dist < 0 {
			return nil, fmt.Errorf("parse edge in line %d: negative weight %d", lineNo, dist)
		}

		if src > lastSrc {
			for j := lastSrc + 1; j <= src; j++ {
				g.Offsets[j] = i
			}
			lastSrc = src
		}
		g.Edges = append(g.Edges, Edge{Src: src, Tgt: tgt, Dist: dist})
	}
	// Nodes past the last source have no outgoing edges; close their ranges.
	for j := lastSrc + 1; j <= numNodes; j++ {
		g.Offsets[j] = numEdges
	}

	return g, nil
}

// Degree returns the number of outgoing edges of the given node.
func (g *Graph) Degree(node int) int {
	return g.Offsets[node+1] - g.Offsets[node]
}

// OutEdges returns the outgoing edges of the given node as a sub-slice of the
// shared edge array. Callers must treat it as read-only.
func (g *Graph) OutEdges(node int) []Edge {
	return g.Edges[g.Offsets[node]:g.Offsets[node+1]]
}
