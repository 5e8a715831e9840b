package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEngineLoadsAndCallsScript(t *testing.T) {
	dir := t.TempDir()
	script := `function describe_room(name) return "a generated room called " .. name end`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gen.lua"), []byte(script), 0o644))

	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	out, err := e.Call("describe_room", "Thornwood")
	require.NoError(t, err)
	require.Equal(t, "a generated room called Thornwood", out)
}

func TestEngineCallUnknownFunction(t *testing.T) {
	dir := t.TempDir()
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Call("does_not_exist")
	require.Error(t, err)
}
