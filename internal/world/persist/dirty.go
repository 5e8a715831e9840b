package persist

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DirtySet is the set of stable ids awaiting auto-save. mark_dirty inserts;
// auto_save drains it entity-by-entity, dropping ids whose runtime handle no
// longer exists.
type DirtySet struct {
	mu  sync.Mutex
	ids map[uuid.UUID]struct{}
}

func NewDirtySet() *DirtySet {
	return &DirtySet{ids: make(map[uuid.UUID]struct{})}
}

func (d *DirtySet) Add(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids[id] = struct{}{}
}

func (d *DirtySet) Remove(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.ids, id)
}

func (d *DirtySet) Snapshot() []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uuid.UUID, 0, len(d.ids))
	for id := range d.ids {
		out = append(out, id)
	}
	return out
}

func (d *DirtySet) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ids)
}

// AutoSave drains the dirty set once: for each id, find its runtime handle
// via the registry, save it, and remove it from the set; ids with no
// handle are dropped without saving.
func (m *Manager) AutoSave(ctx context.Context, log *zap.Logger) {
	for _, id := range m.dirty.Snapshot() {
		m.world.RLock()
		handle, ok := m.world.Registry().Resolve(id)
		m.world.RUnlock()
		if !ok {
			m.dirty.Remove(id)
			continue
		}
		if err := m.SaveEntity(ctx, handle); err != nil {
			log.Error("auto-save failed", zap.String("entity", id.String()), zap.Error(err))
		}
	}
}

// RunAutoSaveLoop runs AutoSave on a fixed interval until ctx is cancelled,
// the way the teacher runs its periodic persistence tasks as a goroutine
// off cmd/l1jgo/main.go's boot sequence.
func (m *Manager) RunAutoSaveLoop(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.AutoSave(ctx, log)
		}
	}
}
