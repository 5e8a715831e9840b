package ecs

import "sync"

// World is the top-level ECS container: the entity pool and the registry.
// Mutation of component data is serialized through Lock/RLock — a single
// fair reader/writer lock, per spec §5 ("the ECS read/write lock is a fair
// single-writer/multi-reader primitive"). Systems are expected to collect
// work under RLock and take Lock only for the mutation itself (see
// internal/world/command.AttemptMove for the reference shape of this pattern).
type World struct {
	mu       sync.RWMutex
	pool     *EntityPool
	registry *Registry
}

func NewWorld() *World {
	return &World{
		pool:     NewEntityPool(),
		registry: NewRegistry(),
	}
}

func (w *World) Registry() *Registry { return w.registry }

// RLock/RUnlock/Lock/Unlock expose the world lock directly to callers that
// need to hold it across a read-then-resolve sequence (movement, command
// handlers). Component stores are plain ecs.Store[T] values owned by the
// caller (internal/world/component), not by World itself — World only
// arbitrates access to them.
func (w *World) RLock()   { w.mu.RLock() }
func (w *World) RUnlock() { w.mu.RUnlock() }
func (w *World) Lock()    { w.mu.Lock() }
func (w *World) Unlock()  { w.mu.Unlock() }

// CreateEntity allocates a fresh runtime handle. Callers register it with
// the Registry (Bind) once a stable id is known.
func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy removes the entity's handle from the pool and clears its data from
// every component store via the registry. Entities are destroyed only via
// this explicit call (spec §3 lifecycle invariant) — there is no deferred
// destroy queue because the world has no fixed-rate simulation tick driving
// one.
func (w *World) Destroy(id EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.registry.Unbind(id)
	w.pool.Destroy(id)
}
