package tui

import (
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

// StringWidth returns the display width of s in cells
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate truncates string with … suffix if its display width exceeds maxW
func Truncate(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxW {
		return s
	}
	if maxW == 1 {
		return "…"
	}
	return truncate.StringWithTail(s, uint(maxW), "…")
}
