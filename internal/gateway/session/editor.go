package session

import (
	"fmt"
	"strings"
)

// EditMode is the editor's insert/overwrite toggle (spec §4.1).
type EditMode int

const (
	Insert EditMode = iota
	Overwrite
)

func (m EditMode) String() string {
	if m == Overwrite {
		return "OVR"
	}
	return "INS"
}

// Editor holds one in-progress multi-line edit buffer, entered from Playing
// via a server-triggered ".edit …" and exited by .s (save) or .q (quit).
type Editor struct {
	Title   string
	Lines   []string
	Mode    EditMode
	Cursor  int // character offset into the flattened buffer
	Width   int
}

// NewEditor starts an editor session with the configured width bounds
// already clamped by the caller (EditorWidthMin/EditorWidthMax).
func NewEditor(title string, content string, width int) *Editor {
	e := &Editor{Title: title, Mode: Insert, Width: width}
	if content != "" {
		e.Lines = strings.Split(content, "\n")
		e.Cursor = len(content)
	}
	return e
}

// Prompt implements spec §4.1's Editing prompt format.
func (e *Editor) Prompt() string {
	return fmt.Sprintf("[Editing: %s - %s] ", e.Title, e.Mode)
}

// lineAtCursor returns the index of the line containing Cursor: the line
// whose newline-delimited range contains the offset, or the last line if
// the offset is at or past the end.
func (e *Editor) lineAtCursor() int {
	if len(e.Lines) == 0 {
		return 0
	}
	offset := 0
	for i, line := range e.Lines {
		end := offset + len(line) + 1 // +1 for the implicit newline
		if e.Cursor < end || i == len(e.Lines)-1 {
			return i
		}
		offset = end
	}
	return len(e.Lines) - 1
}

// Content returns the buffer joined with newlines.
func (e *Editor) Content() string {
	return strings.Join(e.Lines, "\n")
}

// clampWidth enforces spec §4.1's [20, 200] bound.
func clampWidth(w, min, max int) int {
	if w < min {
		return min
	}
	if w > max {
		return max
	}
	return w
}

// HandleLine applies one line of editor input per spec §4.1's dot-command
// alphabet, or appends/overwrites it as buffer text. Returns the editor's
// output for this line and whether the editor session ended (true on .s/.q).
func (e *Editor) HandleLine(line string, minWidth, maxWidth int) (output string, done bool) {
	switch {
	case line == ".s" || line == ".save":
		return "", true
	case line == ".q" || line == ".quit":
		return "", true
	case line == ".h" || line == ".help":
		return "Commands: .s/.save save, .q/.quit quit, .i toggle insert/overwrite, " +
			".w/.wrap <n> set width, .u/.unwrap disable wrapping, .fg/.bg <color>, " +
			".c/.clear clear, .p/.print print.", false
	case line == ".i":
		if e.Mode == Insert {
			e.Mode = Overwrite
		} else {
			e.Mode = Insert
		}
		return fmt.Sprintf("Mode: %s", e.Mode), false
	case line == ".c" || line == ".clear":
		e.Lines = nil
		e.Cursor = 0
		return "Buffer cleared.", false
	case line == ".p" || line == ".print":
		return e.Content(), false
	case line == ".u" || line == ".unwrap":
		e.Width = maxWidth
		return fmt.Sprintf("Wrapping disabled (width set to %d).", e.Width), false
	case strings.HasPrefix(line, ".w ") || strings.HasPrefix(line, ".wrap "):
		arg := strings.TrimPrefix(strings.TrimPrefix(line, ".wrap "), ".w ")
		var w int
		if _, err := fmt.Sscanf(arg, "%d", &w); err != nil {
			return "Usage: .w/.wrap <width>", false
		}
		e.Width = clampWidth(w, minWidth, maxWidth)
		return fmt.Sprintf("Width set to %d.", e.Width), false
	case strings.HasPrefix(line, ".fg "):
		seq, ok := resolveColor(strings.TrimPrefix(line, ".fg "), false)
		if !ok {
			return "Unknown color.", false
		}
		return seq, false
	case strings.HasPrefix(line, ".bg "):
		seq, ok := resolveColor(strings.TrimPrefix(line, ".bg "), true)
		if !ok {
			return "Unknown color.", false
		}
		return seq, false
	default:
		e.applyText(line)
		return "", false
	}
}

// applyText appends (Insert) or replaces the line under the cursor
// (Overwrite), per spec §4.1's editor contract.
func (e *Editor) applyText(text string) {
	if e.Mode == Insert {
		e.Lines = append(e.Lines, text)
		e.Cursor += len(text) + 1
		return
	}
	idx := e.lineAtCursor()
	if idx >= len(e.Lines) {
		e.Lines = append(e.Lines, text)
		return
	}
	e.Lines[idx] = text
}
