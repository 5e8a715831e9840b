package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type cluster struct {
	kind    Kind
	members []*Record
}

func (c *cluster) meanSimilarity(r *Record) float64 {
	if len(c.members) == 0 || len(r.Embedding) == 0 {
		return 0
	}
	var total float64
	var n int
	for _, m := range c.members {
		if len(m.Embedding) == 0 {
			continue
		}
		total += CosineSimilarity(r.Embedding, m.Embedding)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Consolidate clusters Experience/Observation recall candidates by embedding
// similarity and replaces every cluster of size >= 2 with one summarized
// record, returning the count of member memories consumed.
func (s *Store) Consolidate(ctx context.Context, entity uuid.UUID, query, memCtx string, tags []string, mode TagMode, llm LLM, similarityThreshold float64) (int, error) {
	if similarityThreshold <= 0 {
		similarityThreshold = s.cfg.SimilarityThreshold
	}

	nodes, err := s.Recall(ctx, entity, query, []Kind{KindExperience, KindObservation}, tags, mode)
	if err != nil {
		return 0, err
	}
	if len(nodes) < 2 {
		return 0, nil
	}

	var clusters []*cluster
	for _, n := range nodes {
		r := n.Record
		if len(r.Embedding) == 0 {
			continue
		}
		var best *cluster
		var bestSim float64
		for _, c := range clusters {
			if c.kind != r.Kind {
				continue
			}
			sim := c.meanSimilarity(r)
			if sim > similarityThreshold && sim > bestSim {
				best, bestSim = c, sim
			}
		}
		if best != nil {
			best.members = append(best.members, r)
		} else {
			clusters = append(clusters, &cluster{kind: r.Kind, members: []*Record{r}})
		}
	}

	consumed := 0
	for _, c := range clusters {
		if len(c.members) < 2 {
			continue
		}
		if err := s.consolidateCluster(ctx, entity, c, llm); err != nil {
			return consumed, err
		}
		consumed += len(c.members)
	}
	return consumed, nil
}

func (s *Store) consolidateCluster(ctx context.Context, entity uuid.UUID, c *cluster, llm LLM) error {
	content := summarizeCluster(ctx, c.members, llm)

	tagSet := map[string]bool{}
	var meanImportance float64
	for _, m := range c.members {
		for _, t := range m.Tags {
			tagSet[t] = true
		}
		meanImportance += m.Importance
	}
	meanImportance /= float64(len(c.members))
	importance := math.Min(meanImportance*1.1, 1.0)

	tags := make([]string, 0, len(tagSet))
	for t := range tagSet {
		tags = append(tags, t)
	}

	vec, err := s.embed(ctx, content)
	if err != nil {
		return err
	}

	rec := &Record{
		ID:           uuid.New(),
		EntityID:     entity,
		Kind:         c.kind,
		Content:      content,
		CreatedAt:    time.Now(),
		LastAccessed: time.Now(),
		Importance:   importance,
		DecayRate:    s.cfg.DefaultDecayRate * 0.8,
		Relations:    map[string]uuid.UUID{},
		Involved:     map[uuid.UUID]string{},
		Embedding:    vec,
		Tags:         tags,
	}
	if err := s.insertOne(ctx, rec); err != nil {
		return err
	}
	for _, m := range c.members {
		if err := s.DeleteMemory(ctx, m.ID); err != nil {
			return err
		}
	}
	s.invalidateList(entity)
	return nil
}

func summarizeCluster(ctx context.Context, members []*Record, llm LLM) string {
	if llm != nil {
		contents := make([]string, len(members))
		for i, m := range members {
			contents[i] = m.Content
		}
		system := "Summarize the following related memories into a single concise account, no more than 200 words."
		resp, err := llm.Complete(ctx, system, strings.Join(contents, "\n"), 0.3, 400)
		if err == nil && resp != "" {
			return resp
		}
	}
	return fallbackConcat(members)
}

func fallbackConcat(members []*Record) string {
	if len(members) <= 3 {
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = m.Content
		}
		return strings.Join(parts, "; ")
	}
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.Content
	}
	return fmt.Sprintf("Summary of %d related memories: %s", len(members), strings.Join(parts, "; "))
}

// AutoConsolidateIfNeeded triggers an unfiltered consolidation when the
// entity's memory count has reached the configured threshold.
func (s *Store) AutoConsolidateIfNeeded(ctx context.Context, entity uuid.UUID, llm LLM) (bool, error) {
	n, err := s.CountMemories(ctx, entity)
	if err != nil {
		return false, err
	}
	if n < s.cfg.ConsolidationThreshold {
		return false, nil
	}
	if _, err := s.Consolidate(ctx, entity, "", "", nil, TagAny, llm, 0); err != nil {
		return false, err
	}
	return true, nil
}
