package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the memory store's tunables, all carrying the spec's stated
// defaults.
type Config struct {
	MaxMemoriesPerEntity   int
	MaxRecallResults       int
	DefaultDecayRate       float64
	MinImportanceThreshold float64
	ConsolidationThreshold int
	SimilarityThreshold    float64
	EmbeddingCacheSize     int
	EmbeddingCacheTTL      time.Duration
	MemoryCacheSize        int
	ListCacheSize          int
	LLMMaxTokens           int
}

func (c Config) withDefaults() Config {
	if c.MaxMemoriesPerEntity == 0 {
		c.MaxMemoriesPerEntity = 1000
	}
	if c.MaxRecallResults == 0 {
		c.MaxRecallResults = 10
	}
	if c.DefaultDecayRate == 0 {
		c.DefaultDecayRate = 0.01
	}
	if c.MinImportanceThreshold == 0 {
		c.MinImportanceThreshold = 0.1
	}
	if c.ConsolidationThreshold == 0 {
		c.ConsolidationThreshold = 50
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.75
	}
	if c.EmbeddingCacheSize == 0 {
		c.EmbeddingCacheSize = 4096
	}
	if c.EmbeddingCacheTTL == 0 {
		c.EmbeddingCacheTTL = time.Hour
	}
	if c.MemoryCacheSize == 0 {
		c.MemoryCacheSize = 2048
	}
	if c.ListCacheSize == 0 {
		c.ListCacheSize = 512
	}
	if c.LLMMaxTokens == 0 {
		c.LLMMaxTokens = 512
	}
	return c
}

// LLM is the minimal chat-completion surface reflect/consolidate call into.
// Deliberately narrow so this package does not depend on any one provider
// SDK; cklxx-elephant.ai's internal/infra/llm package is the grounding
// reference for the shape, not a hard dependency.
type LLM interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

// Store owns the pool, config, embedding provider, and the three caches
// (memory-by-id, list-by-entity, embedding-by-text) described for this
// subsystem.
type Store struct {
	pool       *pgxpool.Pool
	cfg        Config
	embeddings EmbeddingProvider

	memCache  *lru.Cache[uuid.UUID, *Record]
	listCache *lru.Cache[uuid.UUID, []*Record]
	embedCache *embeddingCache
}

func NewStore(pool *pgxpool.Pool, cfg Config, embeddings EmbeddingProvider) *Store {
	cfg = cfg.withDefaults()
	memCache, _ := lru.New[uuid.UUID, *Record](cfg.MemoryCacheSize)
	listCache, _ := lru.New[uuid.UUID, []*Record](cfg.ListCacheSize)
	return &Store{
		pool:       pool,
		cfg:        cfg,
		embeddings: embeddings,
		memCache:   memCache,
		listCache:  listCache,
		embedCache: newEmbeddingCache(cfg.EmbeddingCacheSize, cfg.EmbeddingCacheTTL),
	}
}

func (s *Store) invalidateList(entity uuid.UUID) {
	s.listCache.Remove(entity)
}

// CountMemories reports how many memories an entity owns.
func (s *Store) CountMemories(ctx context.Context, entity uuid.UUID) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wyldlands.entity_memories WHERE entity_id = $1`, entity).Scan(&n)
	if err != nil {
		return 0, ErrDatabase
	}
	return n, nil
}

// Retain validates, embeds, and inserts a new memory, returning its id.
func (s *Store) Retain(ctx context.Context, entity uuid.UUID, kind Kind, content string,
	ts time.Time, memCtx string, metadata map[string]string, involved map[uuid.UUID]string, tags []string) (uuid.UUID, error) {

	trimmed, err := validateContent(content)
	if err != nil {
		return uuid.Nil, err
	}
	n, err := s.CountMemories(ctx, entity)
	if err != nil {
		return uuid.Nil, err
	}
	if n >= s.cfg.MaxMemoriesPerEntity {
		return uuid.Nil, ErrMemoryLimitExceeded
	}
	vec, err := s.embed(ctx, trimmed)
	if err != nil {
		return uuid.Nil, err
	}

	rec := &Record{
		ID:           uuid.New(),
		EntityID:     entity,
		Kind:         kind,
		Content:      trimmed,
		CreatedAt:    ts,
		LastAccessed: ts,
		AccessCount:  0,
		Importance:   0.5,
		DecayRate:    s.cfg.DefaultDecayRate,
		Context:      memCtx,
		Metadata:     metadata,
		Relations:    map[string]uuid.UUID{},
		Involved:     involved,
		Embedding:    vec,
		Tags:         tags,
	}
	if err := s.insertOne(ctx, rec); err != nil {
		return uuid.Nil, err
	}
	s.invalidateList(entity)
	return rec.ID, nil
}

// RetainBatch validates every item first, embeds them in one batched call,
// and inserts them all within one transaction.
func (s *Store) RetainBatch(ctx context.Context, items []RetainItem) ([]uuid.UUID, error) {
	texts := make([]string, len(items))
	trimmedItems := make([]RetainItem, len(items))
	for i, it := range items {
		trimmed, err := validateContent(it.Content)
		if err != nil {
			return nil, err
		}
		it.Content = trimmed
		trimmedItems[i] = it
		texts[i] = trimmed
	}
	vecs, err := s.embedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, ErrDatabase
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, len(items))
	affected := map[uuid.UUID]bool{}
	for i, it := range trimmedItems {
		rec := &Record{
			ID:           uuid.New(),
			EntityID:     it.Entity,
			Kind:         it.Kind,
			Content:      it.Content,
			CreatedAt:    it.Timestamp,
			LastAccessed: it.Timestamp,
			Importance:   0.5,
			DecayRate:    s.cfg.DefaultDecayRate,
			Context:      it.Context,
			Metadata:     it.Metadata,
			Relations:    map[string]uuid.UUID{},
			Involved:     it.Involved,
			Embedding:    vecs[i],
			Tags:         it.Tags,
		}
		if err := insertOneTx(ctx, tx, rec); err != nil {
			return nil, err
		}
		ids[i] = rec.ID
		affected[it.Entity] = true
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, ErrDatabase
	}
	for e := range affected {
		s.invalidateList(e)
	}
	return ids, nil
}

// RetainItem is one element of a RetainBatch call.
type RetainItem struct {
	Entity    uuid.UUID
	Kind      Kind
	Content   string
	Timestamp time.Time
	Context   string
	Metadata  map[string]string
	Involved  map[uuid.UUID]string
	Tags      []string
}

// GetMemory is cache-first; on miss it hydrates from storage including the
// involved-entities table and populates the cache.
func (s *Store) GetMemory(ctx context.Context, id uuid.UUID) (*Record, error) {
	if r, ok := s.memCache.Get(id); ok {
		return r, nil
	}
	rec, err := s.fetchOne(ctx, id)
	if err != nil {
		return nil, err
	}
	s.memCache.Add(id, rec)
	return rec, nil
}

// ListMemories is cache-first, ordered by creation time descending.
func (s *Store) ListMemories(ctx context.Context, entity uuid.UUID) ([]*Record, error) {
	if recs, ok := s.listCache.Get(entity); ok {
		return recs, nil
	}
	recs, err := s.fetchAll(ctx, entity)
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].CreatedAt.After(recs[j].CreatedAt) })
	s.listCache.Add(entity, recs)
	return recs, nil
}

// AlterMemory applies optional updates. A content update always regenerates
// the embedding — see DESIGN.md for why this deliberately departs from the
// stale-embedding TODO in the original.
func (s *Store) AlterMemory(ctx context.Context, id uuid.UUID, content, memCtx *string, tags []string) error {
	rec, err := s.GetMemory(ctx, id)
	if err != nil {
		return err
	}
	if content != nil {
		trimmed, err := validateContent(*content)
		if err != nil {
			return err
		}
		vec, err := s.embed(ctx, trimmed)
		if err != nil {
			return err
		}
		rec.Content = trimmed
		rec.Embedding = vec
	}
	if memCtx != nil {
		rec.Context = *memCtx
	}
	if tags != nil {
		rec.Tags = tags
	}
	if err := s.updateOne(ctx, rec); err != nil {
		return err
	}
	s.memCache.Add(id, rec)
	s.invalidateList(rec.EntityID)
	return nil
}

// DeleteMemory removes a memory row; relationship rows cascade via FK.
func (s *Store) DeleteMemory(ctx context.Context, id uuid.UUID) error {
	rec, err := s.GetMemory(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM wyldlands.entity_memories WHERE memory_id = $1`, id); err != nil {
		return ErrDatabase
	}
	s.memCache.Remove(id)
	s.invalidateList(rec.EntityID)
	return nil
}
