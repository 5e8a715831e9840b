// Package component is the entity/component catalogue of spec §3: one Go
// type per row, documented invariants enforced where attachment or mutation
// can observe them. Components are sparse — any subset may be attached to
// an entity — and presence is tracked by the ecs.Store[T] that holds them,
// not by a flag on the component itself.
package component

import (
	"github.com/google/uuid"

	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

// Persistent marks an entity that must be written during save (spec §3).
// It carries no data; its presence in the Persistent store is the marker.
type Persistent struct{}

// Ref is a cross-entity reference as persisted (a stable id) paired with the
// runtime handle resolved once at load time, per spec §3: "in-memory
// component payloads carry resolved runtime handles alongside the stable id
// for O(1) access". Handle is the zero value until resolved.
type Ref struct {
	StableID uuid.UUID
	Handle   ecs.EntityID
}

func (r Ref) IsZero() bool { return r.StableID == uuid.Nil }

// Resolve looks up Handle from the registry if it is not already cached.
func (r *Ref) Resolve(reg *ecs.Registry) bool {
	if !r.Handle.IsZero() {
		return true
	}
	h, ok := reg.Resolve(r.StableID)
	if ok {
		r.Handle = h
	}
	return ok
}
