package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// PruneLowImportanceMemories deletes memories below the configured
// importance threshold, while always leaving at least minKeep in place.
func (s *Store) PruneLowImportanceMemories(ctx context.Context, entity uuid.UUID, minKeep int) (int, error) {
	all, err := s.ListMemories(ctx, entity)
	if err != nil {
		return 0, err
	}
	all = append([]*Record(nil), all...)
	now := time.Now()
	sort.Slice(all, func(i, j int) bool {
		return CurrentImportance(all[i], now) < CurrentImportance(all[j], now)
	})

	pruned := 0
	remaining := len(all)
	for _, r := range all {
		if remaining <= minKeep {
			break
		}
		if CurrentImportance(r, now) >= s.cfg.MinImportanceThreshold {
			break
		}
		if err := s.DeleteMemory(ctx, r.ID); err != nil {
			return pruned, err
		}
		pruned++
		remaining--
	}
	return pruned, nil
}

// RelatedMemories performs a single-hop, non-recursive traversal of a
// memory's relation table — supplementing the distilled spec with the
// original's related_memories API (see DESIGN.md).
func (s *Store) RelatedMemories(ctx context.Context, id uuid.UUID) ([]*Record, error) {
	rec, err := s.GetMemory(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(rec.Relations))
	for _, relID := range rec.Relations {
		related, err := s.GetMemory(ctx, relID)
		if err != nil {
			continue
		}
		out = append(out, related)
	}
	return out, nil
}

// GraphStats summarizes an entity's memory graph: counts per kind and mean
// importance — supplementing the distilled spec with the original's
// memory_graph_stats API (see DESIGN.md).
type GraphStats struct {
	CountByKind      map[Kind]int
	MeanImportance   float64
	TotalMemories    int
}

func (s *Store) GraphStats(ctx context.Context, entity uuid.UUID) (GraphStats, error) {
	all, err := s.ListMemories(ctx, entity)
	if err != nil {
		return GraphStats{}, err
	}
	stats := GraphStats{CountByKind: map[Kind]int{}, TotalMemories: len(all)}
	var total float64
	now := time.Now()
	for _, r := range all {
		stats.CountByKind[r.Kind]++
		total += CurrentImportance(r, now)
	}
	if len(all) > 0 {
		stats.MeanImportance = total / float64(len(all))
	}
	return stats, nil
}
