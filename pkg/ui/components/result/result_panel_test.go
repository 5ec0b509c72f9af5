package result

import (
	"fmt"
	"strings"
	"testing"

	"taskchat/pkg/ui/components/testutils"

	"github.com/charmbracelet/x/ansi"
)

func TestResultPanel_ShowAndClose(t *testing.T) {
	for _, key := range []string{"esc", "q"} {
		t.Run(key, func(t *testing.T) {
			rp := NewResultPanel()
			rp.SetSize(80, 24)
			rp.Show("Help", "line one\nline two")

			if !rp.IsVisible() {
				t.Fatal("Expected panel visible")
			}
			view := ansi.Strip(rp.View())
			if !strings.Contains(view, "Help") || !strings.Contains(view, "line two") {
				t.Errorf("Unexpected view %q", view)
			}

			msg := testutils.TestKeyEsc
			if key == "q" {
				msg = testutils.NewTextKeyPressMsg("q")
			}
			cmd := rp.Update(msg)
			if rp.IsVisible() {
				t.Error("Expected panel hidden")
			}
			if _, ok := cmd().(CloseMsg); !ok {
				t.Error("Expected CloseMsg")
			}
		})
	}
}

func TestResultPanel_Scroll(t *testing.T) {
	rp := NewResultPanel()
	rp.SetSize(80, 20)

	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, fmt.Sprintf("row %02d", i))
	}
	rp.Show("Long", strings.Join(lines, "\n"))

	rp.Update(testutils.TestKeyUp)
	if rp.scrollY != 0 {
		t.Errorf("Expected scroll clamped at 0, got %d", rp.scrollY)
	}
	rp.Update(testutils.TestKeyDown)
	if rp.scrollY != 1 {
		t.Errorf("Expected scroll 1, got %d", rp.scrollY)
	}

	for i := 0; i < 10; i++ {
		rp.Update(testutils.TestKeyPgDown)
	}
	maxScroll := 40 - rp.visibleLines()
	if rp.scrollY != maxScroll {
		t.Errorf("Expected scroll clamped at %d, got %d", maxScroll, rp.scrollY)
	}
	if !strings.Contains(ansi.Strip(rp.View()), "row 39") {
		t.Error("Expected last row visible at bottom")
	}
}

func TestResultPanel_HiddenView(t *testing.T) {
	if NewResultPanel().View() != "" {
		t.Error("Expected empty view when hidden")
	}
}

func TestResultPanel_ShowError(t *testing.T) {
	rp := NewResultPanel()
	rp.SetSize(80, 24)
	rp.ShowError("Error", "nothing to copy yet")
	if !rp.isError {
		t.Error("Expected error flag")
	}
	rp.Show("Help", "ok")
	if rp.isError {
		t.Error("Expected Show to clear error flag")
	}
}
