package strategy

import (
	"sort"

	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/internal/sim/state"
	"github.com/emberworks/firefighter-simulator/model"
)

// Greedy defends directly at the fire frontier.
//
// Each round the candidates are the undefended out-neighbours of currently
// burning nodes. They are ranked by shield value — the number of undefended
// out-neighbours a candidate itself protects when defended — descending,
// with ascending node id as the tie-break, and the top NumFFs are defended.
// Greedy keeps no state between rounds and needs no precomputation.
type Greedy struct {
	graph *core.Graph
}

// NewGreedy creates a greedy frontier strategy on the shared graph.
func NewGreedy(g *core.Graph) *Greedy {
	return &Greedy{graph: g}
}

// Precompute is a no-op; the frontier is evaluated fresh every round.
func (s *Greedy) Precompute(roots []int, settings model.Settings) {}

// Execute defends up to settings.NumFFs frontier nodes at tick t.
func (s *Greedy) Execute(settings model.Settings, nd *state.Store, t model.TimeUnit) {
	seen := make(map[int]bool)
	var candidates []int
	for _, rec := range nd.BurningRecords() {
		for _, e := range s.graph.OutEdges(rec.NodeID) {
			if !seen[e.Tgt] && nd.IsUndefended(e.Tgt) {
				seen[e.Tgt] = true
				candidates = append(candidates, e.Tgt)
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	shield := make(map[int]int, len(candidates))
	for _, c := range candidates {
		n := 0
		for _, e := range s.graph.OutEdges(c) {
			if nd.IsUndefended(e.Tgt) {
				n++
			}
		}
		shield[c] = n
	}

	sort.Slice(candidates, func(i, j int) bool {
		if shield[candidates[i]] != shield[candidates[j]] {
			return shield[candidates[i]] > shield[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})

	if len(candidates) > settings.NumFFs {
		candidates = candidates[:settings.NumFFs]
	}
	nd.MarkDefended(candidates, t)
}
