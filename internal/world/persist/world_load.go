package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadResult summarizes a LoadWorld pass.
type LoadResult struct {
	Succeeded int
	Failed    int
}

// LoadWorld implements the two-phase load: query every entity excluding
// unavailable avatars, phase 1 spawns + registers every id, phase 2 runs the
// component loaders in catalogue order for each, accumulating counts and
// logging (not aborting on) per-entity failures.
func (m *Manager) LoadWorld(ctx context.Context, log *zap.Logger) (LoadResult, error) {
	ids, err := m.loadableEntityIDs(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("query loadable entities: %w", err)
	}

	for _, id := range ids {
		m.world.Lock()
		h := m.world.CreateEntity()
		m.world.Registry().Bind(id, h)
		m.world.Unlock()
	}

	var result LoadResult
	m.world.Lock()
	defer m.world.Unlock()
	for _, id := range ids {
		h, _ := m.world.Registry().Resolve(id)
		var anyErr bool
		for _, c := range catalogue {
			if err := c.load(ctx, m.db.Pool, m.stores, id, h); err != nil {
				log.Error("component load failed",
					zap.String("entity", id.String()), zap.String("component", c.name), zap.Error(err))
				anyErr = true
			}
		}
		if anyErr {
			result.Failed++
		} else {
			result.Succeeded++
		}
	}
	return result, nil
}

func (m *Manager) loadableEntityIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := m.db.Pool.Query(ctx, `
		SELECT e.uuid FROM wyldlands.entities e
		LEFT JOIN wyldlands.entity_avatars a ON a.entity_id = e.uuid
		WHERE a.entity_id IS NULL OR a.available = true`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
