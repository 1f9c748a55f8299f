// Package sim runs firefighter problem simulations: a fire ignited at random
// roots spreads along weighted edges tick by tick, while a containment
// strategy defends nodes within the firefighter budget.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/internal/logging"
	"github.com/emberworks/firefighter-simulator/internal/sim/state"
	"github.com/emberworks/firefighter-simulator/internal/sim/strategy"
	"github.com/emberworks/firefighter-simulator/model"
)

var (
	// ErrTooManyRoots indicates a root count exceeding the graph size.
	ErrTooManyRoots = errors.New("number of fire roots exceeds graph size")

	// ErrInvalidRoots indicates pinned roots that do not match the settings
	// or the graph.
	ErrInvalidRoots = errors.New("invalid pinned fire roots")
)

// Recorder receives engine timing signals. The observability collector
// implements it; a nil recorder observes nothing.
type Recorder interface {
	ObserveStepDuration(d time.Duration)
	ObserveSimulationDuration(strategyName string, d time.Duration)
}

// Engine drives one firefighter problem instance.
//
// Each tick advances global time by one, runs a containment decision round
// at the configured cadence, then spreads the fire: an undefended node v
// adjacent to a node b burning since tick t_b over an edge of weight w
// catches fire once global time reaches t_b + w. The instance stays active
// as long as some burning node still has an undefended out-neighbour.
//
// Engine is not safe for concurrent mutation; callers interleaving ExecStep
// with reads must serialise externally.
type Engine struct {
	graph    *core.Graph
	settings model.Settings
	strat    strategy.Strategy
	nd       *state.Store

	time   model.TimeUnit
	active bool
	roots  []int

	rng    *rand.Rand
	pinned []int
	log    logging.Logger
	rec    Recorder
}

// Option customises engine construction.
type Option func(*Engine)

// WithRand injects the PRNG used for root selection. Fixing the seed makes
// root selection reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithRoots pins the fire roots instead of drawing them at random. The
// number of pinned roots must match settings.NumRoots.
func WithRoots(roots ...int) Option {
	return func(e *Engine) {
		e.pinned = roots
	}
}

// WithLogger attaches a logger. The default drops all logs.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRecorder attaches a timing recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.rec = r
	}
}

// New creates an engine on the shared graph, ignites the fire roots and runs
// the strategy precomputation. The graph must not be mutated afterwards.
func New(g *core.Graph, settings model.Settings, strat strategy.Strategy, opts ...Option) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.NumRoots > g.NumNodes {
		return nil, fmt.Errorf("%w: %d roots on %d nodes", ErrTooManyRoots, settings.NumRoots, g.NumNodes)
	}

	e := &Engine{
		graph:    g,
		settings: settings,
		strat:    strat,
		nd:       state.NewStore(),
		active:   true,
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	roots, err := e.igniteRoots()
	if err != nil {
		return nil, err
	}
	e.roots = roots
	e.strat.Precompute(roots, e.settings)

	return e, nil
}

// igniteRoots selects the fire roots and marks them burning at tick 0.
func (e *Engine) igniteRoots() ([]int, error) {
	roots := e.pinned
	if roots == nil {
		roots = e.rng.Perm(e.graph.NumNodes)[:e.settings.NumRoots]
	} else {
		if len(roots) != e.settings.NumRoots {
			return nil, fmt.Errorf("%w: got %d roots, settings expect %d",
				ErrInvalidRoots, len(roots), e.settings.NumRoots)
		}
		seen := make(map[int]bool, len(roots))
		for _, r := range roots {
			if r < 0 || r >= e.graph.NumNodes {
				return nil, fmt.Errorf("%w: node %d out of range [0, %d)",
					ErrInvalidRoots, r, e.graph.NumNodes)
			}
			if seen[r] {
				return nil, fmt.Errorf("%w: duplicate node %d", ErrInvalidRoots, r)
			}
			seen[r] = true
		}
	}

	e.log.Debug(context.Background(), "igniting fire roots", logging.Any("roots", roots))
	e.nd.MarkBurning(roots, 0)
	return roots, nil
}

// ExecStep executes one tick: advance time, run the containment round if
// due, then spread the fire.
func (e *Engine) ExecStep() {
	start := time.Now()

	e.time++
	e.containFire()
	e.spreadFire()

	if e.rec != nil {
		e.rec.ObserveStepDuration(time.Since(start))
	}
}

// containFire runs one strategy decision round at the configured cadence.
func (e *Engine) containFire() {
	if e.time%e.settings.StrategyEvery == 0 {
		e.strat.Execute(e.settings, e.nd, e.time)
	}
}

// spreadFire burns every undefended node whose burn time has been reached
// and recomputes the activity flag. Candidates are evaluated against the
// pre-spread state: a node due to burn this tick does not ignite its own
// neighbours until the next one.
func (e *Engine) spreadFire() {
	e.active = false
	queued := make(map[int]bool)
	var toBurn []int

	for _, rec := range e.nd.BurningRecords() {
		for _, edge := range e.graph.OutEdges(rec.NodeID) {
			if !e.nd.IsUndefended(edge.Tgt) {
				continue
			}
			// Some node can still catch fire, now or later.
			e.active = true
			if e.time >= rec.Time+model.TimeUnit(edge.Dist) && !queued[edge.Tgt] {
				queued[edge.Tgt] = true
				toBurn = append(toBurn, edge.Tgt)
			}
		}
	}

	if len(toBurn) > 0 {
		e.log.Debug(context.Background(), "burning nodes",
			logging.Uint64("tick", uint64(e.time)), logging.Any("nodes", toBurn))
		e.nd.MarkBurning(toBurn, e.time)
	}
}

// Simulate steps the instance until the fire can no longer spread or the
// context is cancelled.
func (e *Engine) Simulate(ctx context.Context) error {
	start := time.Now()

	for e.active {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.ExecStep()
	}

	e.log.Info(ctx, "simulation finished",
		logging.String("strategy", e.settings.StrategyName),
		logging.Uint64("end_time", uint64(e.time)),
		logging.Int("nodes_burned", e.nd.NumBurning()),
		logging.Int("nodes_defended", e.nd.NumDefended()))
	if e.rec != nil {
		e.rec.ObserveSimulationDuration(e.settings.StrategyName, time.Since(start))
	}
	return nil
}

// Time returns the current global tick.
func (e *Engine) Time() model.TimeUnit { return e.time }

// Active reports whether the fire can still spread.
func (e *Engine) Active() bool { return e.active }

// Roots returns a copy of the fire root ids.
func (e *Engine) Roots() []int {
	roots := make([]int, len(e.roots))
	copy(roots, e.roots)
	return roots
}

// Settings returns the instance settings.
func (e *Engine) Settings() model.Settings { return e.settings }

// Graph returns the shared graph handle.
func (e *Engine) Graph() *core.Graph { return e.graph }

// Store exposes the node state for read access.
func (e *Engine) Store() *state.Store { return e.nd }
