package palette

import (
	"strings"
	"testing"

	"taskchat/pkg/ui/components/testutils"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func newTestPalette() *CommandPalette {
	return NewCommandPalette(
		Command{Name: "/copy", Description: "Copy the last reply"},
		Command{Name: "/health", Description: "Check backend connection"},
		Command{Name: "/help", Description: "Show available commands"},
	)
}

func TestCommandPalette_ClampsToSmallWidth(t *testing.T) {
	p := newTestPalette()
	p.SetSize(20, 8)
	p.Show()

	view := p.View()
	if view == "" {
		t.Fatal("expected non-empty view")
	}
	for _, line := range strings.Split(view, "\n") {
		if got := lipgloss.Width(line); got > 20 {
			t.Fatalf("expected width <= 20, got %d", got)
		}
	}
}

func TestCommandPalette_HiddenViewIsEmpty(t *testing.T) {
	p := newTestPalette()
	if p.View() != "" {
		t.Error("Expected empty view while hidden")
	}
}

func TestCommandPalette_FilterNarrowsList(t *testing.T) {
	p := newTestPalette()
	p.SetSize(60, 20)
	p.Show()

	for _, r := range "hea" {
		p.Update(testutils.NewTextKeyPressMsg(string(r)))
	}
	if p.Filter() != "hea" {
		t.Fatalf("Expected filter 'hea', got %q", p.Filter())
	}
	if got := p.Selected(); got != "/health" {
		t.Errorf("Expected /health selected, got %q", got)
	}

	view := p.View()
	if strings.Contains(view, "/copy") {
		t.Error("Expected /copy filtered out")
	}
}

func TestCommandPalette_NavigateAndSelect(t *testing.T) {
	p := newTestPalette()
	p.Show()

	p.Update(testutils.TestKeyDown)
	p.Update(testutils.TestKeyDown)
	p.Update(testutils.TestKeyDown)
	if got := p.Selected(); got != "/help" {
		t.Fatalf("Expected selection clamped at /help, got %q", got)
	}
	p.Update(testutils.TestKeyUp)

	cmd := p.Update(testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected select command")
	}
	msg, ok := cmd().(SelectMsg)
	if !ok {
		t.Fatalf("Expected SelectMsg, got %T", cmd())
	}
	if msg.Command != "/health" {
		t.Errorf("Expected /health, got %q", msg.Command)
	}
	if p.IsVisible() {
		t.Error("Expected palette hidden after select")
	}
}

func TestCommandPalette_NoMatchEnterIsIgnored(t *testing.T) {
	p := newTestPalette()
	p.Show()
	p.Update(testutils.NewTextKeyPressMsg("z"))

	if cmd := p.Update(testutils.TestKeyEnter); cmd != nil {
		t.Error("Expected no command when nothing matches")
	}
	if !p.IsVisible() {
		t.Error("Expected palette to stay open")
	}
	if !strings.Contains(p.View(), "No matching commands") {
		t.Error("Expected empty-state text")
	}
}

func TestCommandPalette_CancelKeys(t *testing.T) {
	tests := map[string]tea.KeyPressMsg{
		"esc":       testutils.TestKeyEsc,
		"backspace": testutils.TestKeyBackspace,
	}
	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			p := newTestPalette()
			p.Show()
			cmd := p.Update(key)
			if cmd == nil {
				t.Fatal("Expected cancel command")
			}
			if _, ok := cmd().(CancelMsg); !ok {
				t.Errorf("Expected CancelMsg, got %T", cmd())
			}
			if p.IsVisible() {
				t.Error("Expected palette hidden")
			}
		})
	}
}

func TestCommandPalette_BackspaceEditsFilter(t *testing.T) {
	p := newTestPalette()
	p.Show()
	p.Update(testutils.NewTextKeyPressMsg("h"))
	p.Update(testutils.NewTextKeyPressMsg("e"))

	if cmd := p.Update(testutils.TestKeyBackspace); cmd != nil {
		t.Error("Expected backspace to edit the filter, not cancel")
	}
	if p.Filter() != "h" {
		t.Errorf("Expected filter 'h', got %q", p.Filter())
	}
}
