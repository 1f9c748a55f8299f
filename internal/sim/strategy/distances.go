package strategy

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/emberworks/firefighter-simulator/core"
)

// defaultCacheSize bounds the number of memoised distance vectors per graph.
const defaultCacheSize = 128

// DijkstraTimer receives the wall-clock duration of every uncached
// shortest-path run. The observability collector implements it; the zero
// configuration observes nothing.
type DijkstraTimer interface {
	ObserveDijkstraDuration(d time.Duration)
}

// ShortestPaths memoises one-to-all Dijkstra runs on a shared graph.
//
// Strategy precomputation runs one Dijkstra per fire root, and many
// simulations on the same graph draw overlapping root sets; the LRU keeps
// the hot distance vectors without pinning one per node. Cached vectors are
// shared between callers and must be treated as read-only. Safe for
// concurrent use.
type ShortestPaths struct {
	graph *core.Graph
	cache *lru.Cache[int, []int]
	timer DijkstraTimer
}

// ShortestPathsOption customises ShortestPaths construction.
type ShortestPathsOption func(*ShortestPaths)

// WithDijkstraTimer attaches a timer observing uncached run durations.
func WithDijkstraTimer(t DijkstraTimer) ShortestPathsOption {
	return func(sp *ShortestPaths) {
		sp.timer = t
	}
}

// WithCacheSize overrides the default LRU capacity.
func WithCacheSize(size int) ShortestPathsOption {
	return func(sp *ShortestPaths) {
		cache, err := lru.New[int, []int](size)
		if err == nil {
			sp.cache = cache
		}
	}
}

// NewShortestPaths creates a memoising shortest-path engine over g.
func NewShortestPaths(g *core.Graph, opts ...ShortestPathsOption) *ShortestPaths {
	cache, _ := lru.New[int, []int](defaultCacheSize)
	sp := &ShortestPaths{
		graph: g,
		cache: cache,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sp)
		}
	}
	return sp
}

// Graph exposes the underlying shared graph handle.
func (sp *ShortestPaths) Graph() *core.Graph {
	return sp.graph
}

// From returns the one-to-all distance vector from src, running Dijkstra on
// a cache miss. The returned slice is shared; callers must not mutate it.
func (sp *ShortestPaths) From(src int) []int {
	if dist, ok := sp.cache.Get(src); ok {
		return dist
	}

	start := time.Now()
	dist := sp.graph.RunDijkstra(src)
	if sp.timer != nil {
		sp.timer.ObserveDijkstraDuration(time.Since(start))
	}

	sp.cache.Add(src, dist)
	return dist
}

// MinFromAll returns, per node, the minimum distance from any of the given
// sources. The result is freshly allocated and owned by the caller.
func (sp *ShortestPaths) MinFromAll(sources []int) []int {
	min := make([]int, sp.graph.NumNodes)
	for i := range min {
		min[i] = core.Infinity
	}
	for _, src := range sources {
		for v, d := range sp.From(src) {
			if d < min[v] {
				min[v] = d
			}
		}
	}
	return min
}
