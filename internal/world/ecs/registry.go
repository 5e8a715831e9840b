package ecs

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the bidirectional map between an entity's stable id (§3,
// persists across restarts) and its runtime handle (valid only for one
// world-process lifetime). It also tracks every component Store so an
// entity's data can be bulk-removed on destroy.
//
// The registry is deliberately its own concurrency domain, hotter and more
// fine-grained than the World's single read/write lock (spec §9 design
// notes): resolving a stable id to a handle is the hot path for every
// cross-entity reference, and should not contend with component mutation.
type Registry struct {
	mu       sync.RWMutex
	byStable map[uuid.UUID]EntityID
	byHandle map[EntityID]uuid.UUID
	stores   []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		byStable: make(map[uuid.UUID]EntityID, 1024),
		byHandle: make(map[EntityID]uuid.UUID, 1024),
		stores:   make([]Removable, 0, 32),
	}
}

// RegisterStore adds a component store that must be cleared on destroy.
func (r *Registry) RegisterStore(store Removable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = append(r.stores, store)
}

// Bind records the stable-id/handle pair for a newly created or loaded entity.
func (r *Registry) Bind(stable uuid.UUID, handle EntityID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byStable[stable] = handle
	r.byHandle[handle] = stable
}

// Resolve returns the runtime handle for a stable id, if registered.
func (r *Registry) Resolve(stable uuid.UUID) (EntityID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byStable[stable]
	return h, ok
}

// StableID returns the stable id bound to a runtime handle, if registered.
func (r *Registry) StableID(handle EntityID) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byHandle[handle]
	return id, ok
}

// Len returns the number of registered entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byStable)
}

// Unbind removes the stable-id/handle pair and clears the entity's data from
// every registered component store. Used by explicit entity deletion.
func (r *Registry) Unbind(handle EntityID) {
	r.mu.Lock()
	stable, ok := r.byHandle[handle]
	if ok {
		delete(r.byHandle, handle)
		delete(r.byStable, stable)
	}
	stores := r.stores
	r.mu.Unlock()

	for _, s := range stores {
		s.Remove(handle)
	}
}
