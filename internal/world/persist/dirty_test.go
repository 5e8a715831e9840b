package persist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huhlig/wyldlands-go/internal/world/component"
	"github.com/huhlig/wyldlands-go/internal/world/ecs"
)

func TestDirtySetAddRemoveSnapshot(t *testing.T) {
	ds := NewDirtySet()
	a, b := uuid.New(), uuid.New()
	ds.Add(a)
	ds.Add(b)
	require.Equal(t, 2, ds.Len())

	ds.Remove(a)
	snap := ds.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, b, snap[0])
}

// TestAutoSaveDropsIDsWithNoHandle covers the dirty-set convergence
// invariant: an id with no corresponding runtime handle is dropped from the
// set without needing a database round-trip.
func TestAutoSaveDropsIDsWithNoHandle(t *testing.T) {
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())
	m := NewManager(nil, world, stores)

	ghost := uuid.New()
	m.MarkDirty(ghost)
	require.Equal(t, 1, m.dirty.Len())

	m.AutoSave(context.Background(), zap.NewNop())
	require.Equal(t, 0, m.dirty.Len())
}
