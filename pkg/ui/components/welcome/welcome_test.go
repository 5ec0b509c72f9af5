package welcome

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestLines_ContainsSuggestions(t *testing.T) {
	msg := strings.Join(Lines(80), "\n")

	for i, s := range Suggestions {
		if !strings.Contains(msg, s) {
			t.Errorf("Expected welcome to contain suggestion %d %q", i+1, s)
		}
	}
	if !strings.Contains(msg, "Alt+1") || !strings.Contains(msg, "Alt+4") {
		t.Error("Expected welcome to list the alt shortcuts")
	}
}

func TestLines_ContainsTitleAndBorder(t *testing.T) {
	msg := strings.Join(Lines(80), "\n")
	if !strings.Contains(msg, "Welcome to taskchat") {
		t.Error("Expected welcome to contain title")
	}
	if !strings.Contains(msg, "╭") || !strings.Contains(msg, "╰") {
		t.Error("Expected welcome to contain box border characters")
	}
}

func TestLines_FitsNarrowWidth(t *testing.T) {
	for _, width := range []int{30, 40} {
		for i, line := range Lines(width) {
			if w := lipgloss.Width(line); w > width {
				t.Errorf("width %d: line %d is %d cells wide", width, i, w)
			}
		}
	}
}

func TestLines_TinyWidth(t *testing.T) {
	lines := Lines(8)
	if len(lines) != 1 {
		t.Fatalf("Expected a single fallback line, got %d", len(lines))
	}
}

func TestSuggestion(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"alt+1", Suggestions[0], true},
		{"alt+4", Suggestions[3], true},
		{"alt+5", "", false},
		{"alt+0", "", false},
		{"ctrl+1", "", false},
		{"a", "", false},
	}
	for _, tt := range tests {
		got, ok := Suggestion(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Suggestion(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}
