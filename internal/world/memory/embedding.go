package memory

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// EmbeddingProvider generates dense embedding vectors for text, e.g. a call
// out to an embeddings API or a local model server.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// NoopEmbeddingProvider always fails. It lets the world process construct a
// Store when no embedding model runtime is configured (spec §1 treats the
// runtime itself as out of scope) without a nil-interface panic on first
// use; retain/recall calls surface ErrEmbedding until a real provider is
// wired in config.
type NoopEmbeddingProvider struct{}

func (NoopEmbeddingProvider) Embed(context.Context, string) ([]float64, error) {
	return nil, ErrEmbedding
}

func (NoopEmbeddingProvider) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	return nil, ErrEmbedding
}

// embeddingCacheEntry mirrors cklxx-elephant.ai's llm.cacheEntry shape: a
// value plus an expiry, so a plain lru.Cache can double as a TTL cache.
type embeddingCacheEntry struct {
	vector    []float64
	expiresAt time.Time
}

// embeddingCache wraps an lru.Cache[string, embeddingCacheEntry] with TTL
// eviction on read, the same pattern cklxx-elephant.ai's LLM client factory uses
// for its per-provider client cache.
type embeddingCache struct {
	mu    sync.Mutex
	cache *lru.Cache[string, embeddingCacheEntry]
	ttl   time.Duration
}

func newEmbeddingCache(size int, ttl time.Duration) *embeddingCache {
	c, _ := lru.New[string, embeddingCacheEntry](size)
	return &embeddingCache{cache: c, ttl: ttl}
}

func (c *embeddingCache) get(text string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache.Get(text)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.cache.Remove(text)
		return nil, false
	}
	return entry.vector, true
}

func (c *embeddingCache) put(text string, vec []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(text, embeddingCacheEntry{vector: vec, expiresAt: time.Now().Add(c.ttl)})
}

// embed is the cache-first single-text path.
func (s *Store) embed(ctx context.Context, text string) ([]float64, error) {
	if v, ok := s.embedCache.get(text); ok {
		return v, nil
	}
	v, err := s.embeddings.Embed(ctx, text)
	if err != nil {
		return nil, ErrEmbedding
	}
	s.embedCache.put(text, v)
	return v, nil
}

// embedBatch partitions into cached/uncached, calls the generator once for
// the uncached slice, and merges.
func (s *Store) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	var missTexts []string
	var missIdx []int
	for i, t := range texts {
		if v, ok := s.embedCache.get(t); ok {
			out[i] = v
		} else {
			missTexts = append(missTexts, t)
			missIdx = append(missIdx, i)
		}
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	generated, err := s.embeddings.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, ErrEmbedding
	}
	for j, idx := range missIdx {
		out[idx] = generated[j]
		s.embedCache.put(missTexts[j], generated[j])
	}
	return out, nil
}
