package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadHelpTopicsLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "help.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
topics:
  - keyword: movement
    text: "Use north/south/east/west or their aliases to move between rooms."
`), 0o644))

	topics, err := LoadHelpTopics(path)
	require.NoError(t, err)

	text, ok := topics.Lookup("MOVEMENT")
	require.True(t, ok)
	require.Contains(t, text, "Use north/south")

	_, ok = topics.Lookup("nonexistent")
	require.False(t, ok)
}
