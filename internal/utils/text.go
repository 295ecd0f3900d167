package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

// Clip shortens s to at most width cells, ending with "..." when cut.
// Newlines and tabs are folded to spaces first.
func Clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight clips s to width cells and pads it with spaces to exactly width.
func PadRight(s string, width int) string {
	s = Clip(s, width)
	return runewidth.FillRight(s, width)
}

// PadLeft clips s to width cells and right-aligns it.
func PadLeft(s string, width int) string {
	s = Clip(s, width)
	return runewidth.FillLeft(s, width)
}
