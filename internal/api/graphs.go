package api

import (
	"fmt"
	"sort"
	"sync"

	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/internal/config"
	"github.com/emberworks/firefighter-simulator/internal/sim/strategy"
)

// GraphSet lazily loads catalog graphs and keeps one shortest-path cache per
// graph. Parsing a country-sized graph takes seconds, so graphs load on
// first use and stay resident. Safe for concurrent use.
type GraphSet struct {
	mu        sync.Mutex
	catalog   *config.Catalog
	cacheSize int
	timer     strategy.DijkstraTimer
	loaded    map[string]*graphEntry
}

type graphEntry struct {
	graph *core.Graph
	paths *strategy.ShortestPaths
}

// NewGraphSet creates a graph set over the catalog. The timer may be nil.
func NewGraphSet(catalog *config.Catalog, cacheSize int, timer strategy.DijkstraTimer) *GraphSet {
	return &GraphSet{
		catalog:   catalog,
		cacheSize: cacheSize,
		timer:     timer,
		loaded:    make(map[string]*graphEntry),
	}
}

// Get returns the named graph and its shortest-path cache, loading the graph
// file on first use.
func (gs *GraphSet) Get(name string) (*core.Graph, *strategy.ShortestPaths, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if entry, ok := gs.loaded[name]; ok {
		return entry.graph, entry.paths, nil
	}

	path, err := gs.catalog.GraphPath(name)
	if err != nil {
		return nil, nil, err
	}
	graph, err := core.LoadGraph(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load graph %q: %w", name, err)
	}

	opts := []strategy.ShortestPathsOption{strategy.WithCacheSize(gs.cacheSize)}
	if gs.timer != nil {
		opts = append(opts, strategy.WithDijkstraTimer(gs.timer))
	}
	entry := &graphEntry{
		graph: graph,
		paths: strategy.NewShortestPaths(graph, opts...),
	}
	gs.loaded[name] = entry
	return entry.graph, entry.paths, nil
}

// Names lists the catalog graph names in sorted order.
func (gs *GraphSet) Names() []string {
	names := make([]string, 0, len(gs.catalog.Graphs))
	for name := range gs.catalog.Graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
