// Package utils holds the cell-width helpers shared by the UI components.
package utils

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// Truncate shortens plain text to width cells, ending in an ellipsis when
// anything was cut.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return trim(text, 1)
	}
	return trim(text, width-1) + ellipsis
}

func trim(text string, width int) string {
	var sb strings.Builder
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return sb.String()
}

// Pad right-pads text with spaces to width cells. Escape sequences do not
// count towards the width.
func Pad(text string, width int) string {
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

// Cut drops everything past width cells from styled text, keeping escape
// sequences intact.
func Cut(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(text, width, "")
}
