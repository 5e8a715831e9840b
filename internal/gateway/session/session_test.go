package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditorInsertModeAppends(t *testing.T) {
	e := NewEditor("notes", "", 80)
	out, done := e.HandleLine("first line", 20, 200)
	require.Empty(t, out)
	require.False(t, done)
	out, done = e.HandleLine("second line", 20, 200)
	require.False(t, done)
	require.Equal(t, "first line\nsecond line", e.Content())
}

func TestEditorOverwriteModeReplacesLineUnderCursor(t *testing.T) {
	e := NewEditor("notes", "alpha\nbeta", 80)
	e.Cursor = 0
	e.Mode = Overwrite
	_, done := e.HandleLine("ALPHA", 20, 200)
	require.False(t, done)
	require.Equal(t, "ALPHA\nbeta", e.Content())
}

func TestEditorSaveAndQuitEndSession(t *testing.T) {
	e := NewEditor("notes", "", 80)
	_, done := e.HandleLine(".s", 20, 200)
	require.True(t, done)

	e2 := NewEditor("notes", "", 80)
	_, done2 := e2.HandleLine(".q", 20, 200)
	require.True(t, done2)
}

func TestEditorWidthClampedToBounds(t *testing.T) {
	e := NewEditor("notes", "", 80)
	out, _ := e.HandleLine(".w 5", 20, 200)
	require.Contains(t, out, "20")
	require.Equal(t, 20, e.Width)

	out, _ = e.HandleLine(".w 999", 20, 200)
	require.Contains(t, out, "200")
	require.Equal(t, 200, e.Width)
}

func TestEditorLongFormAliasesMatchShortForms(t *testing.T) {
	e := NewEditor("notes", "", 80)
	_, done := e.HandleLine(".save", 20, 200)
	require.True(t, done)

	e2 := NewEditor("notes", "", 80)
	_, done2 := e2.HandleLine(".quit", 20, 200)
	require.True(t, done2)

	e3 := NewEditor("notes", "line one", 80)
	out, done3 := e3.HandleLine(".print", 20, 200)
	require.False(t, done3)
	require.Equal(t, "line one", out)

	e4 := NewEditor("notes", "line one", 80)
	out, _ = e4.HandleLine(".clear", 20, 200)
	require.Contains(t, out, "cleared")
	require.Empty(t, e4.Content())

	e5 := NewEditor("notes", "", 80)
	out, _ = e5.HandleLine(".help", 20, 200)
	require.Contains(t, out, "quit")

	e6 := NewEditor("notes", "", 80)
	out, _ = e6.HandleLine(".wrap 5", 20, 200)
	require.Contains(t, out, "20")
	require.Equal(t, 20, e6.Width)
}

func TestEditorUnwrapDisablesWidthConstraint(t *testing.T) {
	e := NewEditor("notes", "", 40)
	out, done := e.HandleLine(".w 40", 20, 200)
	require.False(t, done)
	require.Equal(t, 40, e.Width)

	out, done = e.HandleLine(".u", 20, 200)
	require.False(t, done)
	require.Equal(t, 200, e.Width)
	require.Contains(t, out, "disabled")

	e2 := NewEditor("notes", "", 40)
	_, done2 := e2.HandleLine(".unwrap", 20, 200)
	require.False(t, done2)
	require.Equal(t, 200, e2.Width)
}

func TestResolveColorNamedAndHex(t *testing.T) {
	seq, ok := resolveColor("red", false)
	require.True(t, ok)
	require.Equal(t, "\x1b[31m", seq)

	seq, ok = resolveColor("red", true)
	require.True(t, ok)
	require.Equal(t, "\x1b[41m", seq)

	seq, ok = resolveColor("#ff0000", false)
	require.True(t, ok)
	require.Contains(t, seq, "255;0;0")

	_, ok = resolveColor("not-a-color", false)
	require.False(t, ok)
}

func TestSessionPromptsMatchState(t *testing.T) {
	s := &Session{State: StatePlaying}
	require.Equal(t, "> ", s.Prompt())

	s.State = StateUsername
	require.Equal(t, "Username: ", s.Prompt())
	require.Equal(t, LineMode, s.InputMode())

	s.State = StateEditing
	s.editor = NewEditor("notes", "", 80)
	require.Contains(t, s.Prompt(), "Editing: notes")
	require.Equal(t, CharacterMode, s.InputMode())
}
