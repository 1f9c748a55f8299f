package sim

import (
	"sync"

	"github.com/google/uuid"
)

// Registry holds finished and running simulation instances keyed by id.
// Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	sims map[uuid.UUID]*Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sims: make(map[uuid.UUID]*Engine),
	}
}

// Add stores the instance under a fresh id and returns the id.
func (r *Registry) Add(e *Engine) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sims[id] = e
	return id
}

// Get looks up an instance by id.
func (r *Registry) Get(id uuid.UUID) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sims[id]
	return e, ok
}

// Remove deletes the instance with the given id, reporting whether it
// existed.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sims[id]
	delete(r.sims, id)
	return ok
}

// Len returns the number of stored instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sims)
}

// IDs returns the ids of all stored instances, in no particular order.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.sims))
	for id := range r.sims {
		ids = append(ids, id)
	}
	return ids
}
