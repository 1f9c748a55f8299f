package sim

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/internal/sim/state"
	"github.com/emberworks/firefighter-simulator/internal/sim/strategy"
	"github.com/emberworks/firefighter-simulator/model"
)

// buildGraph constructs a CSR graph from edges pre-sorted by source id.
// Node i sits at (lat, lon) = (i, 2i) so view geometry is exact in tests.
func buildGraph(t *testing.T, numNodes int, edges []core.Edge) *core.Graph {
	t.Helper()
	g := &core.Graph{
		Nodes:    make([]core.Node, numNodes),
		Edges:    edges,
		Offsets:  make([]int, numNodes+1),
		NumNodes: numNodes,
		NumEdges: len(edges),
	}
	for v := range g.Nodes {
		g.Nodes[v] = core.Node{ID: v, Lat: float64(v), Lon: float64(2 * v)}
	}
	i := 0
	for v := 0; v <= numNodes; v++ {
		for i < len(edges) && edges[i].Src < v {
			i++
		}
		g.Offsets[v] = i
	}
	g.Offsets[numNodes] = len(edges)
	return g
}

// pathGraph is the line 0 -(2)-> 1 -(3)-> 2 -(1)-> 3.
func pathGraph(t *testing.T) *core.Graph {
	t.Helper()
	return buildGraph(t, 4, []core.Edge{
		{Src: 0, Tgt: 1, Dist: 2},
		{Src: 1, Tgt: 2, Dist: 3},
		{Src: 2, Tgt: 3, Dist: 1},
	})
}

// idleStrategy never defends anything.
type idleStrategy struct{}

func (idleStrategy) Precompute([]int, model.Settings) {}

func (idleStrategy) Execute(model.Settings, *state.Store, model.TimeUnit) {}

func testSettings(strategyName string) model.Settings {
	return model.Settings{
		GraphName:     "test",
		StrategyName:  strategyName,
		NumRoots:      1,
		NumFFs:        1,
		StrategyEvery: 1,
	}
}

func TestEngine_SpreadTimeline(t *testing.T) {
	e, err := New(pathGraph(t), testSettings("idle"), idleStrategy{}, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Burn times along the path: edge weights delay each hop.
	wantBurnAt := map[model.TimeUnit][]int{
		1: {},
		2: {1},
		3: {},
		4: {},
		5: {2},
		6: {3},
	}
	for tick := model.TimeUnit(1); tick <= 6; tick++ {
		if !e.Active() {
			t.Fatalf("tick %d: engine inactive too early", tick)
		}
		e.ExecStep()
		got := e.Store().BurningAt(tick)
		if want := wantBurnAt[tick]; !reflect.DeepEqual(got, want) {
			t.Errorf("tick %d: burned %v, want %v", tick, got, want)
		}
	}

	// One more tick finds no spreadable node and deactivates the engine.
	e.ExecStep()
	if e.Active() {
		t.Errorf("expected engine inactive once the whole path is burned")
	}
	if got := e.Store().NumBurning(); got != 4 {
		t.Errorf("expected all 4 nodes burned, got %d", got)
	}
}

func TestEngine_SimulateTerminates(t *testing.T) {
	e, err := New(pathGraph(t), testSettings("idle"), idleStrategy{}, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := e.Simulate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Active() {
		t.Errorf("engine still active after Simulate")
	}
	if got := e.Time(); got != 7 {
		t.Errorf("expected end time 7, got %d", got)
	}
}

func TestEngine_SimulateHonoursContext(t *testing.T) {
	e, err := New(pathGraph(t), testSettings("idle"), idleStrategy{}, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Simulate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEngine_DefendedNodesNeverBurn(t *testing.T) {
	g := pathGraph(t)
	paths := strategy.NewShortestPaths(g)
	strat, err := strategy.New(strategy.NameGreedy, paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, err := New(g, testSettings(strategy.NameGreedy), strat, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Simulate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The first containment round defends node 1, cutting the path.
	nd := e.Store()
	if !nd.IsDefended(1) {
		t.Fatalf("expected node 1 defended")
	}
	for _, v := range []int{1, 2, 3} {
		if nd.IsBurning(v) {
			t.Errorf("node %d burned despite the cut at node 1", v)
		}
	}
	if got := e.Time(); got != 1 {
		t.Errorf("expected end time 1, got %d", got)
	}
}

func TestEngine_StrategyCadence(t *testing.T) {
	// With strategy_every=3 the first containment round happens at tick 3,
	// after node 1 already burned at tick 2.
	g := pathGraph(t)
	strat, err := strategy.New(strategy.NameGreedy, strategy.NewShortestPaths(g))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings := testSettings(strategy.NameGreedy)
	settings.StrategyEvery = 3
	e, err := New(g, settings, strat, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Simulate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nd := e.Store()
	if !nd.IsBurning(1) {
		t.Errorf("expected node 1 to burn before the first containment round")
	}
	if got := nd.DefendedAt(3); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("expected node 2 defended at tick 3, got %v", got)
	}
	if nd.IsBurning(2) || nd.IsBurning(3) {
		t.Errorf("fire crossed the defended node")
	}
}

func TestEngine_RandomRootsWithSeededRand(t *testing.T) {
	g := pathGraph(t)
	settings := testSettings("idle")
	settings.NumRoots = 2

	seed := int64(42)
	first, err := New(g, settings, idleStrategy{}, WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := New(g, settings, idleStrategy{}, WithRand(rand.New(rand.NewSource(seed))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Roots(), second.Roots()) {
		t.Errorf("same seed produced different roots: %v vs %v", first.Roots(), second.Roots())
	}
	for _, r := range first.Roots() {
		if !first.Store().IsRoot(r) {
			t.Errorf("node %d not marked as root", r)
		}
	}
}

func TestEngine_AllNodesAsRoots(t *testing.T) {
	g := pathGraph(t)
	settings := testSettings("idle")
	settings.NumRoots = g.NumNodes

	e, err := New(g, settings, idleStrategy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := e.Store().NumBurning(); got != g.NumNodes {
		t.Errorf("expected every node burning, got %d", got)
	}

	// Everything is already burning, so the first step deactivates.
	e.ExecStep()
	if e.Active() {
		t.Errorf("expected engine inactive with no undefended node left")
	}
}

func TestEngine_RootValidation(t *testing.T) {
	g := pathGraph(t)

	settings := testSettings("idle")
	settings.NumRoots = g.NumNodes + 1
	if _, err := New(g, settings, idleStrategy{}); !errors.Is(err, ErrTooManyRoots) {
		t.Errorf("expected ErrTooManyRoots, got %v", err)
	}

	cases := map[string][]int{
		"out of range": {7},
		"negative":     {-1},
		"count mismatch": {0, 1},
	}
	for name, roots := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(g, testSettings("idle"), idleStrategy{}, WithRoots(roots...))
			if !errors.Is(err, ErrInvalidRoots) {
				t.Errorf("expected ErrInvalidRoots, got %v", err)
			}
		})
	}

	settings = testSettings("idle")
	settings.NumRoots = 2
	if _, err := New(g, settings, idleStrategy{}, WithRoots(1, 1)); !errors.Is(err, ErrInvalidRoots) {
		t.Errorf("expected ErrInvalidRoots for duplicate roots, got %v", err)
	}
}

func TestEngine_StepMetadata(t *testing.T) {
	e, err := New(pathGraph(t), testSettings("idle"), idleStrategy{}, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Simulate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md := e.StepMetadata(2)
	want := StepMetadata{
		NodesBurnedBy:   2, // root plus node 1
		NodesDefendedBy: 0,
		NodesBurnedAt:   []int{1},
		NodesDefendedAt: []int{},
	}
	if !reflect.DeepEqual(md, want) {
		t.Errorf("metadata at tick 2: got %+v, want %+v", md, want)
	}

	// Ticks without state changes report empty, non-nil id lists.
	md = e.StepMetadata(3)
	if md.NodesBurnedAt == nil || md.NodesDefendedAt == nil {
		t.Errorf("expected non-nil id lists, got %+v", md)
	}
}

func TestEngine_SummaryGolden(t *testing.T) {
	g := pathGraph(t)
	strat, err := strategy.New(strategy.NameGreedy, strategy.NewShortestPaths(g))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e, err := New(g, testSettings(strategy.NameGreedy), strat, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.Simulate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := json.MarshalIndent(e.Summary(), "", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "summary", body)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	e, err := New(pathGraph(t), testSettings("idle"), idleStrategy{}, WithRoots(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := r.Add(e)
	if got, ok := r.Get(id); !ok || got != e {
		t.Fatalf("expected to find the stored instance")
	}
	if r.Len() != 1 {
		t.Errorf("expected length 1, got %d", r.Len())
	}
	if ids := r.IDs(); len(ids) != 1 || ids[0] != id {
		t.Errorf("unexpected ids %v", ids)
	}

	if !r.Remove(id) {
		t.Errorf("expected Remove to report the instance existed")
	}
	if r.Remove(id) {
		t.Errorf("expected Remove to be idempotent")
	}
	if _, ok := r.Get(id); ok {
		t.Errorf("instance still present after Remove")
	}
}
