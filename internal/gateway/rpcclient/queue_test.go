package rpcclient

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huhlig/wyldlands-go/internal/config"
)

func newTestManager() *Manager {
	return New(config.WorldConnConfig{}, zap.NewNop())
}

func TestEnqueueHeadDropOnOverflow(t *testing.T) {
	m := newTestManager()
	for _, cmd := range []string{"c1", "c2", "c3", "c4", "c5"} {
		m.enqueue("sess", cmd, 3)
	}
	stats := m.QueueStats()
	require.Equal(t, 3, stats.Depth)
	require.Equal(t, uint64(2), stats.Dropped)

	m.queueMu.Lock()
	oldest := m.queue[0]
	m.queueMu.Unlock()
	require.Equal(t, "c3", oldest.command)
}

func TestQueueStatsEmptyInitially(t *testing.T) {
	m := newTestManager()
	stats := m.QueueStats()
	require.Equal(t, 0, stats.Depth)
	require.Equal(t, uint64(0), stats.Dropped)
}
