package session

import "fmt"

// ansiReset clears any active color.
const ansiReset = "\x1b[0m"

// namedColors maps the editor's inline color names (8 base + 8 bright) to
// their ANSI SGR codes. "reset" is handled separately since it isn't a
// foreground/background pair.
var namedColors = map[string]string{
	"black":   "30", "red": "31", "green": "32", "yellow": "33",
	"blue": "34", "magenta": "35", "cyan": "36", "white": "37",
	"bright-black": "90", "bright-red": "91", "bright-green": "92", "bright-yellow": "93",
	"bright-blue": "94", "bright-magenta": "95", "bright-cyan": "96", "bright-white": "97",
}

// resolveColor turns an editor .fg/.bg argument into an ANSI escape
// sequence: a named color, a 24-bit #RRGGBB hex color, or "reset".
func resolveColor(name string, background bool) (string, bool) {
	if name == "reset" {
		return ansiReset, true
	}
	if len(name) == 7 && name[0] == '#' {
		var r, g, b int
		if _, err := fmt.Sscanf(name[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
			return "", false
		}
		layer := 38
		if background {
			layer = 48
		}
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, r, g, b), true
	}
	code, ok := namedColors[name]
	if !ok {
		return "", false
	}
	if background {
		// base codes are 30-37/90-97 (foreground); background is +10.
		var n int
		fmt.Sscanf(code, "%d", &n)
		code = fmt.Sprintf("%d", n+10)
	}
	return fmt.Sprintf("\x1b[%sm", code), true
}
