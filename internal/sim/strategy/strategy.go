// Package strategy holds the containment strategies of the firefighter
// problem: each variant decides which nodes to defend at every decision
// round, within the firefighter budget.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emberworks/firefighter-simulator/internal/sim/state"
	"github.com/emberworks/firefighter-simulator/model"
)

// ErrUnknownStrategy indicates a strategy name with no registered variant.
var ErrUnknownStrategy = errors.New("unknown containment strategy")

// Strategy selects nodes to defend at each containment decision point.
//
// Execute must select at most settings.NumFFs currently undefended,
// non-burning nodes and mark them defended at the given tick. Selecting a
// node that is already burning or defended violates the store's single-shot
// invariant; variants filter candidates through Store.IsUndefended. A round
// without eligible candidates is a no-op.
type Strategy interface {
	// Precompute runs once, immediately after the fire roots have been
	// ignited. Variants may run whole-graph shortest-path analysis here to
	// build an ordered defense plan; stateless variants no-op.
	Precompute(roots []int, settings model.Settings)

	// Execute performs one containment decision round at the given tick.
	Execute(settings model.Settings, nd *state.Store, t model.TimeUnit)
}

// Names of the registered strategy variants.
const (
	NameGreedy           = "greedy"
	NameMinDistanceGroup = "min_distance_group"
	NamePriority         = "priority"
)

// Names lists the registered strategy names in a stable order.
func Names() []string {
	return []string{NameGreedy, NameMinDistanceGroup, NamePriority}
}

// New constructs the strategy variant registered under name. The paths cache
// is shared by all distance-based variants operating on the same graph; the
// graph inside it is the one the simulation runs on.
func New(name string, paths *ShortestPaths) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameGreedy:
		return NewGreedy(paths.Graph()), nil
	case NameMinDistanceGroup:
		return NewMinDistanceGroup(paths), nil
	case NamePriority:
		return NewPriority(paths), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
