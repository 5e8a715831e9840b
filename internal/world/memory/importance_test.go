package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMarkAccessedNeverDecreasesImportance(t *testing.T) {
	now := time.Now()
	r := &Record{
		CreatedAt:    now.Add(-48 * time.Hour),
		LastAccessed: now.Add(-2 * time.Hour),
		Importance:   0.5,
		DecayRate:    0.01,
		AccessCount:  0,
	}
	before := CurrentImportance(r, now)
	MarkAccessed(r, now)
	after := CurrentImportance(r, now)
	require.GreaterOrEqual(t, after, before)

	before = after
	MarkAccessed(r, now)
	after = CurrentImportance(r, now)
	require.GreaterOrEqual(t, after, before)
}

func TestShouldPrune(t *testing.T) {
	now := time.Now()
	r := &Record{CreatedAt: now.Add(-365 * 24 * time.Hour), LastAccessed: now.Add(-365 * 24 * time.Hour), Importance: 0.5, DecayRate: 0.05}
	require.True(t, ShouldPrune(r, now, 0.1))

	fresh := &Record{CreatedAt: now, LastAccessed: now, Importance: 0.9, DecayRate: 0.01}
	require.False(t, ShouldPrune(fresh, now, 0.1))
}

func TestCosineSimilarityBoundaries(t *testing.T) {
	require.Equal(t, 0.0, CosineSimilarity(nil, []float64{1}))
	require.Equal(t, 0.0, CosineSimilarity([]float64{1, 2}, []float64{1}))
	require.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))

	sim := CosineSimilarity([]float64{1, 0}, []float64{1, 0})
	require.InDelta(t, 1.0, sim, 1e-9)
	require.GreaterOrEqual(t, sim, -1.0)
	require.LessOrEqual(t, sim, 1.0)
}

func TestTagModeFiltering(t *testing.T) {
	withBoth := &Record{Tags: []string{"t1", "t2"}}
	withOne := &Record{Tags: []string{"t1"}}
	withNone := &Record{Tags: nil}

	want := []string{"t1", "t2"}
	require.True(t, tagMatches(withBoth, want, TagAllStrict))
	require.False(t, tagMatches(withOne, want, TagAllStrict))
	require.False(t, tagMatches(withNone, want, TagAllStrict))

	require.True(t, tagMatches(withNone, want, TagAny))
	require.True(t, tagMatches(withOne, want, TagAny))
}
