package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Node is a scored recall result.
type Node struct {
	Record *Record
	Score  float64
}

// Recall implements the kind/tag filter, scoring, and access-tracking
// pipeline. Matched memories have last_accessed and access_count bumped both
// in the returned records and in storage.
func (s *Store) Recall(ctx context.Context, entity uuid.UUID, query string, kinds []Kind, tags []string, mode TagMode) ([]Node, error) {
	all, err := s.ListMemories(ctx, entity)
	if err != nil {
		return nil, err
	}

	candidates := filterByKind(all, kinds)
	candidates = filterByTags(candidates, tags, mode)

	queryVec, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	nodes := make([]Node, 0, len(candidates))
	for _, r := range candidates {
		sim := similarity(queryVec, r.Embedding, query, r.Content)
		importance := CurrentImportance(r, now)
		recencyBoost := 1.0
		if now.Sub(r.CreatedAt) < time.Hour {
			recencyBoost = 1.15
		}
		score := (0.6*sim + 0.3*importance + 0.1) * recencyBoost
		nodes = append(nodes, Node{Record: r, Score: score})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Score > nodes[j].Score })
	if len(nodes) > s.cfg.MaxRecallResults {
		nodes = nodes[:s.cfg.MaxRecallResults]
	}

	for _, n := range nodes {
		MarkAccessed(n.Record, now)
		_ = s.markAccessedDB(ctx, n.Record.ID, n.Record)
		s.memCache.Add(n.Record.ID, n.Record)
	}
	return nodes, nil
}

func filterByKind(recs []*Record, kinds []Kind) []*Record {
	if len(kinds) == 0 {
		return recs
	}
	want := map[Kind]bool{}
	for _, k := range kinds {
		want[k] = true
	}
	var out []*Record
	for _, r := range recs {
		if want[r.Kind] {
			out = append(out, r)
		}
	}
	return out
}

func filterByTags(recs []*Record, tags []string, mode TagMode) []*Record {
	if len(tags) == 0 {
		return recs
	}
	var out []*Record
	for _, r := range recs {
		if tagMatches(r, tags, mode) {
			out = append(out, r)
		}
	}
	return out
}

func tagMatches(r *Record, want []string, mode TagMode) bool {
	switch mode {
	case TagAny:
		if len(r.Tags) == 0 {
			return true
		}
		return shareAny(r, want)
	case TagAll:
		if len(r.Tags) == 0 {
			return true
		}
		return containsAll(r, want)
	case TagAnyStrict:
		return len(r.Tags) > 0 && shareAny(r, want)
	case TagAllStrict:
		return len(r.Tags) > 0 && containsAll(r, want)
	default:
		return true
	}
}

func shareAny(r *Record, want []string) bool {
	for _, t := range want {
		if r.hasTag(t) {
			return true
		}
	}
	return false
}

func containsAll(r *Record, want []string) bool {
	for _, t := range want {
		if !r.hasTag(t) {
			return false
		}
	}
	return true
}

// similarity uses cosine similarity when the dimensions agree, falling back
// to a keyword heuristic otherwise.
func similarity(queryVec, memVec []float64, query, content string) float64 {
	if len(queryVec) > 0 && len(memVec) > 0 && len(queryVec) == len(memVec) {
		return CosineSimilarity(queryVec, memVec)
	}
	return keywordSimilarity(query, content)
}

func keywordSimilarity(query, content string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(content)
	if q == "" {
		return 0
	}
	if strings.Contains(c, q) {
		return 0.8
	}
	words := strings.Fields(q)
	if len(words) == 0 {
		return 0
	}
	matches := 0
	for _, w := range words {
		if strings.Contains(c, w) {
			matches++
		}
	}
	return (float64(matches) / float64(len(words))) * 0.6
}
