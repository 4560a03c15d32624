// Package components provides ANSI-aware text primitives shared by the
// portal's screen renderers and the CLI. Widths are measured in terminal
// cells, so styled strings and wide characters line up.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended by Ellipsize when it cuts a string.
const Ellipsis = "…"

// VisibleLen returns the width of s in terminal cells.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

func cut(s string, width int, tail string) string {
	if width < 1 {
		return ""
	}
	return ansi.Truncate(s, width, tail)
}

// Truncate cuts s to at most maxWidth cells.
func Truncate(s string, maxWidth int) string { return cut(s, maxWidth, "") }

// Ellipsize cuts s to maxWidth cells and marks the cut with Ellipsis,
// which counts toward maxWidth.
func Ellipsize(s string, maxWidth int) string { return cut(s, maxWidth, Ellipsis) }

// PadRight appends spaces until s is width cells wide. Wider strings are
// returned unchanged.
func PadRight(s string, width int) string {
	if gap := width - VisibleLen(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Fit makes s exactly width cells wide, ellipsizing or padding as needed.
func Fit(s string, width int) string {
	return PadRight(Ellipsize(s, width), width)
}

// Columns lays cells out left to right, fitting each into the matching
// width and separating them with one space. The last cell is never cut.
func Columns(widths []int, cells ...string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i < len(widths) && i < len(cells)-1 {
			c = Fit(c, widths[i])
		}
		b.WriteString(c)
	}
	return b.String()
}

// Wrap word-wraps s at width cells and returns the lines.
func Wrap(s string, width int) []string {
	if width < 1 {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
