package utils

import (
	"testing"

	"charm.land/lipgloss/v2"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"fits", "hello", 5, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"one cell", "hello", 1, "h"},
		{"zero", "hello", 0, ""},
		{"wide runes", "日本語テキスト", 5, "日本…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestPad_IgnoresEscapes(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("ab")
	got := Pad(styled, 5)
	if lipgloss.Width(got) != 5 {
		t.Errorf("Expected width 5, got %d", lipgloss.Width(got))
	}
	if Pad("toolong", 3) != "toolong" {
		t.Error("Expected wider text unchanged")
	}
}

func TestCut(t *testing.T) {
	styled := "\x1b[1mbold text\x1b[0m"
	if got := lipgloss.Width(Cut(styled, 4)); got != 4 {
		t.Errorf("Expected 4 cells, got %d", got)
	}
	if Cut(styled, 0) != "" {
		t.Error("Expected empty result for zero width")
	}
}
