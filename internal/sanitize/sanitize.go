// Package sanitize removes terminal control sequences and decorative
// glyphs from captured agent output before display.
package sanitize

import (
	"regexp"
	"strings"
)

// ansiCSI matches an ANSI CSI sequence: ESC '[' followed by zero or more
// bytes in 0x20-0x3F and exactly one final byte in 0x40-0x7E.
var ansiCSI = regexp.MustCompile(`\x1b\[[\x20-\x3f]*[\x40-\x7e]`)

// boxGlyphs are the panel-border characters the agent printer emits.
const boxGlyphs = "┏┓┗┛┃━"

// Clean strips ANSI CSI escape sequences and box-drawing glyphs from raw.
// All other characters, including whitespace and non-ASCII text, pass
// through unchanged and in order. Clean is total and idempotent.
//
// Removing a glyph can splice the surrounding bytes into a new escape
// sequence ("\x1b[┃0m" becomes "\x1b[0m"), so the passes repeat until
// the text stops changing.
func Clean(raw string) string {
	out := raw
	for {
		next := ansiCSI.ReplaceAllString(out, "")
		for _, g := range boxGlyphs {
			next = strings.ReplaceAll(next, string(g), "")
		}
		if next == out {
			return next
		}
		out = next
	}
}
