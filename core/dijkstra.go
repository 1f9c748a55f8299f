package core

import (
	"fmt"
	"math"
)

// Infinity marks a node not reached by a shortest-path run.
const Infinity = math.MaxInt

// RunDijkstra computes the shortest distance from src to every node of the
// graph over the non-negative integer edge weights. Unreached nodes keep the
// Infinity sentinel. Complexity is O((V+E) log V).
//
// An out-of-range source id is a precondition violation and panics; there are
// no other failure modes.
func (g *Graph) RunDijkstra(src int) []int {
	if src < 0 || src >= g.NumNodes {
		panic(fmt.Sprintf("dijkstra source %d out of range [0,%d)", src, g.NumNodes))
	}

	dist := make([]int, g.NumNodes)
	for i := range dist {
		dist[i] = Infinity
	}
	dist[src] = 0

	pq := NewIndexedMinHeap(g.NumNodes)
	pq.Push(src, dist)

	for pq.Len() > 0 {
		node := pq.Pop(dist)

		for i := g.Offsets[node]; i < g.Offsets[node+1]; i++ {
			edge := &g.Edges[i]
			d := dist[node] + edge.Dist

			if d < dist[edge.Tgt] {
				dist[edge.Tgt] = d

				if pq.Contains(edge.Tgt) {
					pq.DecreaseKey(edge.Tgt, dist)
				} else {
					pq.Push(edge.Tgt, dist)
				}
			}
		}
	}

	return dist
}
