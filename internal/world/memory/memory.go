// Package memory implements the per-entity memory store: retention, recall,
// importance decay, consolidation, and pruning, backed by a relational pool
// and an embedding provider cache (adapted from the caching idiom in
// cklxx-elephant.ai's internal/infra/llm.Factory).
package memory

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is one of the four memory categories.
type Kind string

const (
	KindWorld       Kind = "world"
	KindExperience  Kind = "experience"
	KindOpinion     Kind = "opinion"
	KindObservation Kind = "observation"
)

// TagMode controls how a recall's tag filter is applied.
type TagMode int

const (
	TagAny TagMode = iota
	TagAll
	TagAnyStrict
	TagAllStrict
)

// Error is the memory store's named error enum (spec §7).
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNotFound            Error = "memory not found"
	ErrEntityNotFound      Error = "entity not found"
	ErrEmbedding           Error = "embedding generation failed"
	ErrDatabase            Error = "database error"
	ErrMemoryLimitExceeded Error = "memory limit exceeded for entity"
	ErrInvalidContent      Error = "invalid memory content"
	ErrLLM                 Error = "llm call failed"
	ErrJSON                Error = "json encode/decode failed"
)

// Record is one memory row, fully hydrated.
type Record struct {
	ID           uuid.UUID
	EntityID     uuid.UUID
	Kind         Kind
	Content      string
	CreatedAt    time.Time
	LastAccessed time.Time
	AccessCount  int
	Importance   float64
	DecayRate    float64
	Context      string
	Metadata     map[string]string
	Relations    map[string]uuid.UUID
	Involved     map[uuid.UUID]string
	Embedding    []float64
	Tags         []string
}

func (r *Record) hasTag(t string) bool {
	for _, tag := range r.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

func validateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", errors.Join(ErrInvalidContent, errors.New("content must be non-empty after trimming"))
	}
	if len(trimmed) > 10000 {
		return "", errors.Join(ErrInvalidContent, errors.New("content exceeds 10000 characters"))
	}
	return trimmed, nil
}
