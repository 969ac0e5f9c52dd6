// Package sanitize makes server-supplied text safe to print to a terminal.
//
// Answers, passages and error details come from the backend verbatim. Escape
// sequences in them could move the cursor, retitle the window or recolor the
// rest of the session, so everything shown goes through this package first.
package sanitize

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

const (
	// MaxInlineLength is the display width at which Inline truncates.
	MaxInlineLength = 80

	// Ellipsis marks truncated text.
	Ellipsis = "…"
)

// Text strips escape sequences and control characters, keeping newlines
// and tabs. Carriage returns are normalized away.
//
// Examples:
//
//	"\x1b[31mred\x1b[0m"  -> "red"
//	"a\r\nb"              -> "a\nb"
//	"bell\a"              -> "bell"
func Text(s string) string {
	if s == "" {
		return s
	}
	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsControl(r):
			// dropped, including \r and C1 controls
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Inline sanitizes s for a single-line label: whitespace runs collapse to
// one space and the result is truncated to MaxInlineLength cells.
//
// Examples:
//
//	"Art. 6\n(1)"          -> "Art. 6 (1)"
//	"  spaced   out  "     -> "spaced out"
func Inline(s string) string {
	s = strings.Join(strings.Fields(Text(s)), " ")
	if ansi.StringWidth(s) > MaxInlineLength {
		s = ansi.Truncate(s, MaxInlineLength, Ellipsis)
	}
	return s
}
