package toast

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"taskchat/pkg/chat"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

func note(id string, kind chat.Kind, text string) chat.Notification {
	return chat.Notification{ID: id, Kind: kind, Text: text, CreatedAt: time.Now()}
}

func TestStack_PushAndDismiss(t *testing.T) {
	s := NewStack(time.Second)

	if cmd := s.Push(note("a", chat.KindSuccess, "Connected to backend")); cmd == nil {
		t.Fatal("Expected dismiss tick")
	}
	s.Push(note("b", chat.KindError, "Connection lost"))

	if s.Len() != 2 {
		t.Fatalf("Expected 2 toasts, got %d", s.Len())
	}

	s.Dismiss("a")
	items := s.Items()
	if len(items) != 1 || items[0].ID != "b" {
		t.Errorf("Expected only b to remain, got %+v", items)
	}

	s.Dismiss("missing")
	if s.Len() != 1 {
		t.Error("Expected unknown id to be ignored")
	}
}

func TestStack_KeepsNewest(t *testing.T) {
	s := NewStack(time.Second)
	for i := 0; i < maxVisible+2; i++ {
		s.Push(note(fmt.Sprint(i), chat.KindInfo, "n"))
	}
	items := s.Items()
	if len(items) != maxVisible {
		t.Fatalf("Expected %d toasts, got %d", maxVisible, len(items))
	}
	if items[0].ID != "2" {
		t.Errorf("Expected oldest toasts dropped, first is %s", items[0].ID)
	}
}

func TestStack_ViewShowsEveryToast(t *testing.T) {
	s := NewStack(time.Second)
	s.Push(note("a", chat.KindSuccess, "Connected to backend"))
	s.Push(note("b", chat.KindError, "Request failed. Please try again."))

	view := ansi.Strip(s.View(80))
	if !strings.Contains(view, "Connected to backend") || !strings.Contains(view, "Request failed") {
		t.Errorf("Expected both toasts in view, got %q", view)
	}
	for i, line := range strings.Split(s.View(20), "\n") {
		if w := lipgloss.Width(line); w > 20 {
			t.Errorf("Line %d is %d wide, want <= 20", i, w)
		}
	}
}

func TestStack_EmptyView(t *testing.T) {
	if NewStack(0).View(80) != "" {
		t.Error("Expected empty view")
	}
}

func TestNotifier_ListenDeliversInOrder(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	n.Notify(note("1", chat.KindInfo, "first"))
	n.Notify(note("2", chat.KindInfo, "second"))

	for _, want := range []string{"first", "second"} {
		msg, ok := n.Listen()().(ShowMsg)
		if !ok {
			t.Fatal("Expected ShowMsg")
		}
		if msg.Notification.Text != want {
			t.Errorf("Expected %q, got %q", want, msg.Notification.Text)
		}
	}
}

func TestNotifier_DropsWhenFull(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	for i := 0; i < notifierBuffer+5; i++ {
		n.Notify(note(fmt.Sprint(i), chat.KindInfo, "x"))
	}
	if len(n.ch) != notifierBuffer {
		t.Errorf("Expected buffer to hold %d, got %d", notifierBuffer, len(n.ch))
	}
}

func TestNotifier_CloseUnblocksListen(t *testing.T) {
	n := NewNotifier()
	done := make(chan any, 1)
	go func() {
		done <- n.Listen()()
	}()
	n.Close()
	n.Close()

	select {
	case msg := <-done:
		if msg != nil {
			t.Errorf("Expected nil after close, got %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after Close")
	}
}

func TestRender_OverlaysTopRight(t *testing.T) {
	base := strings.Join([]string{
		strings.Repeat("a", 40),
		strings.Repeat("b", 40),
		strings.Repeat("c", 40),
		strings.Repeat("d", 40),
		strings.Repeat("e", 40),
	}, "\n")
	s := NewStack(time.Second)
	s.Push(note("a", chat.KindInfo, "hi"))

	out := strings.Split(Render(base, s, 40), "\n")
	if ansi.Strip(out[0]) != strings.Repeat("a", 40) {
		t.Error("Expected first row untouched")
	}
	if !strings.Contains(ansi.Strip(out[2]), "hi") {
		t.Errorf("Expected toast text on row 2, got %q", ansi.Strip(out[2]))
	}
	for i, line := range out {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("Row %d width %d, want 40", i, w)
		}
	}
}
