package strategy

import (
	"github.com/emberworks/firefighter-simulator/internal/sim/state"
	"github.com/emberworks/firefighter-simulator/model"
)

// Priority defends the most urgent nodes first.
//
// Precompute builds the same distance-from-roots ordering as
// MinDistanceGroup; a node's urgency at tick t is its remaining time
// dist(v) - t until the fire would reach it, so ascending distance order is
// ascending remaining-time order at every tick. Each round defends the
// NumFFs most urgent undefended, non-burning nodes — always filling the full
// budget while candidates remain, with ascending node id as the tie-break.
type Priority struct {
	paths *ShortestPaths
	queue []planEntry
	next  int
}

// NewPriority creates the urgency-queue strategy.
func NewPriority(paths *ShortestPaths) *Priority {
	return &Priority{paths: paths}
}

// Precompute builds the urgency queue from the roots.
func (s *Priority) Precompute(roots []int, settings model.Settings) {
	s.queue = buildPlan(s.paths, roots)
	s.next = 0
}

// Execute defends the settings.NumFFs most urgent eligible nodes at tick t.
func (s *Priority) Execute(settings model.Settings, nd *state.Store, t model.TimeUnit) {
	var picked []int
	for s.next < len(s.queue) && len(picked) < settings.NumFFs {
		entry := s.queue[s.next]
		s.next++
		if nd.IsUndefended(entry.node) {
			picked = append(picked, entry.node)
		}
	}

	if len(picked) > 0 {
		nd.MarkDefended(picked, t)
	}
}
