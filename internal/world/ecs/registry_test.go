package ecs

import (
	"testing"

	"github.com/google/uuid"
)

// TestRegistryBijection verifies spec §8 testable property 1: every bound
// entity resolves both directions, and an unbound handle resolves neither.
func TestRegistryBijection(t *testing.T) {
	w := NewWorld()
	reg := w.Registry()

	stable := uuid.New()
	handle := w.CreateEntity()
	reg.Bind(stable, handle)

	gotHandle, ok := reg.Resolve(stable)
	if !ok || gotHandle != handle {
		t.Fatalf("Resolve(stable) = (%v, %v), want (%v, true)", gotHandle, ok, handle)
	}
	gotStable, ok := reg.StableID(handle)
	if !ok || gotStable != stable {
		t.Fatalf("StableID(handle) = (%v, %v), want (%v, true)", gotStable, ok, stable)
	}
}

func TestRegistryUnbindClearsBothDirections(t *testing.T) {
	w := NewWorld()
	reg := w.Registry()

	stable := uuid.New()
	handle := w.CreateEntity()
	reg.Bind(stable, handle)
	w.Destroy(handle)

	if _, ok := reg.Resolve(stable); ok {
		t.Fatalf("Resolve(stable) should fail after Destroy")
	}
	if _, ok := reg.StableID(handle); ok {
		t.Fatalf("StableID(handle) should fail after Destroy")
	}
}

func TestUnbindClearsComponentStores(t *testing.T) {
	w := NewWorld()
	reg := w.Registry()
	store := NewStore[int]()
	reg.RegisterStore(store)

	handle := w.CreateEntity()
	reg.Bind(uuid.New(), handle)
	v := 42
	store.Set(handle, &v)

	w.Destroy(handle)

	if store.Has(handle) {
		t.Fatalf("component store still has data for destroyed entity")
	}
}

func TestEach2IteratesIntersectionOnly(t *testing.T) {
	a := NewStore[int]()
	b := NewStore[string]()
	id1, id2, id3 := EntityID(1), EntityID(2), EntityID(3)
	v1, v2, v3 := 1, 2, 3
	a.Set(id1, &v1)
	a.Set(id2, &v2)
	a.Set(id3, &v3)
	s1, s2 := "x", "y"
	b.Set(id1, &s1)
	b.Set(id2, &s2)

	seen := map[EntityID]bool{}
	Each2(a, b, func(id EntityID, ai *int, bs *string) {
		seen[id] = true
	})
	if len(seen) != 2 || !seen[id1] || !seen[id2] || seen[id3] {
		t.Fatalf("Each2 visited %v, want {id1,id2}", seen)
	}
}
