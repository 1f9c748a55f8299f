// internal/sim/state/state.go
package state

import (
	"fmt"
	"sort"

	"github.com/emberworks/firefighter-simulator/model"
)

// NodeRecord captures the tick at which a node transitioned to burning or
// defended.
type NodeRecord struct {
	NodeID int            `json:"node_id"`
	Time   model.TimeUnit `json:"time"`
}

// Store tracks the burning and defended node sets of one simulation
// instance.
//
// A node occupies at most one of the two sets. Insertion is single-shot and
// monotone: once recorded, a node is never removed and never moved to the
// other set. The Store is owned exclusively by its simulation engine and is
// not safe for concurrent mutation.
type Store struct {
	burning  map[int]NodeRecord
	defended map[int]NodeRecord
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		burning:  make(map[int]NodeRecord),
		defended: make(map[int]NodeRecord),
	}
}

// IsRoot reports whether the node is a fire root, i.e. burning since tick 0.
func (s *Store) IsRoot(node int) bool {
	rec, ok := s.burning[node]
	return ok && rec.Time == 0
}

// IsBurning reports whether the node is recorded as burning, regardless of
// transition time.
func (s *Store) IsBurning(node int) bool {
	_, ok := s.burning[node]
	return ok
}

// IsBurningBy reports whether the node started burning at or before t.
func (s *Store) IsBurningBy(node int, t model.TimeUnit) bool {
	rec, ok := s.burning[node]
	return ok && rec.Time <= t
}

// CountBurningBy counts the nodes burning at or before t.
func (s *Store) CountBurningBy(t model.TimeUnit) int {
	n := 0
	for _, rec := range s.burning {
		if rec.Time <= t {
			n++
		}
	}
	return n
}

// IsDefended reports whether the node is recorded as defended.
func (s *Store) IsDefended(node int) bool {
	_, ok := s.defended[node]
	return ok
}

// IsDefendedBy reports whether the node was defended at or before t.
func (s *Store) IsDefendedBy(node int, t model.TimeUnit) bool {
	rec, ok := s.defended[node]
	return ok && rec.Time <= t
}

// CountDefendedBy counts the nodes defended at or before t.
func (s *Store) CountDefendedBy(t model.TimeUnit) int {
	n := 0
	for _, rec := range s.defended {
		if rec.Time <= t {
			n++
		}
	}
	return n
}

// IsUndefended reports whether the node is absent from both sets, i.e. still
// eligible for burning or defending.
func (s *Store) IsUndefended(node int) bool {
	return !s.IsBurning(node) && !s.IsDefended(node)
}

// NumBurning returns the total number of burned nodes.
func (s *Store) NumBurning() int { return len(s.burning) }

// NumDefended returns the total number of defended nodes.
func (s *Store) NumDefended() int { return len(s.defended) }

// MarkBurning records every listed node as burning at time t. Marking a node
// that already carries a record violates the single-shot invariant and
// panics.
func (s *Store) MarkBurning(nodes []int, t model.TimeUnit) {
	for _, node := range nodes {
		s.assertUndefended(node)
		s.burning[node] = NodeRecord{NodeID: node, Time: t}
	}
}

// MarkDefended records every listed node as defended at time t. Marking a
// node that already carries a record violates the single-shot invariant and
// panics.
func (s *Store) MarkDefended(nodes []int, t model.TimeUnit) {
	for _, node := range nodes {
		s.assertUndefended(node)
		s.defended[node] = NodeRecord{NodeID: node, Time: t}
	}
}

func (s *Store) assertUndefended(node int) {
	if !s.IsUndefended(node) {
		panic(fmt.Sprintf("node %d already marked burning or defended", node))
	}
}

// BurningRecords returns the records of all burned nodes, ordered by
// ascending node id.
func (s *Store) BurningRecords() []NodeRecord {
	recs := make([]NodeRecord, 0, len(s.burning))
	for _, rec := range s.burning {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].NodeID < recs[j].NodeID })
	return recs
}

// BurningAt returns the ids of the nodes that started burning exactly at t,
// ordered ascending. Together with DefendedAt it reports per-tick deltas for
// animation and step metadata, not cumulative counts.
func (s *Store) BurningAt(t model.TimeUnit) []int {
	return idsAt(s.burning, t)
}

// DefendedAt returns the ids of the nodes defended exactly at t, ordered
// ascending.
func (s *Store) DefendedAt(t model.TimeUnit) []int {
	return idsAt(s.defended, t)
}

func idsAt(records map[int]NodeRecord, t model.TimeUnit) []int {
	ids := make([]int, 0)
	for node, rec := range records {
		if rec.Time == t {
			ids = append(ids, node)
		}
	}
	sort.Ints(ids)
	return ids
}
