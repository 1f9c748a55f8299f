package strategy

import (
	"sort"

	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/internal/sim/state"
	"github.com/emberworks/firefighter-simulator/model"
)

// planEntry is one node of a precomputed defense plan together with its
// minimum distance from any fire root.
type planEntry struct {
	node int
	dist int
}

// buildPlan orders every non-root node reachable from the roots by ascending
// distance-from-roots, with ascending node id as the tie-break.
func buildPlan(paths *ShortestPaths, roots []int) []planEntry {
	isRoot := make(map[int]bool, len(roots))
	for _, r := range roots {
		isRoot[r] = true
	}

	dist := paths.MinFromAll(roots)
	plan := make([]planEntry, 0, len(dist))
	for v, d := range dist {
		if d == core.Infinity || isRoot[v] {
			continue
		}
		plan = append(plan, planEntry{node: v, dist: d})
	}
	sort.Slice(plan, func(i, j int) bool {
		if plan[i].dist != plan[j].dist {
			return plan[i].dist < plan[j].dist
		}
		return plan[i].node < plan[j].node
	})
	return plan
}

// MinDistanceGroup defends the graph band by band, closest first.
//
// Precompute orders all reachable non-root nodes by their minimum distance
// from any fire root. Each round consumes the next band — the nodes sharing
// the lowest not-yet-consumed distance value — capped at NumFFs; a band
// larger than the budget continues on the following round. Nodes that burned
// in the meantime are skipped. Unlike Priority, a round stops at the band
// boundary even when the budget is not exhausted.
type MinDistanceGroup struct {
	paths *ShortestPaths
	plan  []planEntry
	next  int
}

// NewMinDistanceGroup creates the banded distance strategy.
func NewMinDistanceGroup(paths *ShortestPaths) *MinDistanceGroup {
	return &MinDistanceGroup{paths: paths}
}

// Precompute builds the distance-ordered defense plan from the roots.
func (s *MinDistanceGroup) Precompute(roots []int, settings model.Settings) {
	s.plan = buildPlan(s.paths, roots)
	s.next = 0
}

// Execute defends up to settings.NumFFs nodes of the current band at tick t.
func (s *MinDistanceGroup) Execute(settings model.Settings, nd *state.Store, t model.TimeUnit) {
	if s.next >= len(s.plan) {
		return
	}

	band := s.plan[s.next].dist
	var picked []int
	for s.next < len(s.plan) && s.plan[s.next].dist == band && len(picked) < settings.NumFFs {
		entry := s.plan[s.next]
		s.next++
		if nd.IsUndefended(entry.node) {
			picked = append(picked, entry.node)
		}
	}

	if len(picked) > 0 {
		nd.MarkDefended(picked, t)
	}
}
