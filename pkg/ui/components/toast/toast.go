// Package toast renders short-lived notifications above the chat panel.
package toast

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"taskchat/pkg/chat"
	"taskchat/pkg/ui/components/utils"
	"taskchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	DefaultDuration = 3 * time.Second
	maxVisible      = 5
	maxToastWidth   = 48
	notifierBuffer  = 32
)

// ShowMsg carries a notification into the Bubble Tea loop.
type ShowMsg struct {
	Notification chat.Notification
}

// DismissMsg removes the toast with the given id.
type DismissMsg struct {
	ID string
}

// Stack holds the visible toasts, oldest first.
type Stack struct {
	items    []chat.Notification
	duration time.Duration
}

// NewStack creates a stack whose toasts live for d.
func NewStack(d time.Duration) *Stack {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Stack{duration: d}
}

// SetDuration changes the lifetime of toasts pushed after the call.
func (s *Stack) SetDuration(d time.Duration) {
	if d > 0 {
		s.duration = d
	}
}

// Push shows n and returns the tick that will dismiss it.
func (s *Stack) Push(n chat.Notification) tea.Cmd {
	s.items = append(s.items, n)
	if len(s.items) > maxVisible {
		s.items = s.items[len(s.items)-maxVisible:]
	}
	slog.Debug("toast_shown", "id", n.ID, "kind", n.Kind, "text", n.Text)

	id := n.ID
	return tea.Tick(s.duration, func(time.Time) tea.Msg {
		return DismissMsg{ID: id}
	})
}

// Dismiss removes the toast with id. Unknown ids are ignored.
func (s *Stack) Dismiss(id string) {
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the visible toasts.
func (s *Stack) Items() []chat.Notification {
	out := make([]chat.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of visible toasts.
func (s *Stack) Len() int {
	return len(s.items)
}

// View renders the toasts stacked vertically, each at most width cells wide.
func (s *Stack) View(width int) string {
	if len(s.items) == 0 {
		return ""
	}
	boxWidth := maxToastWidth
	if width < boxWidth {
		boxWidth = width
	}

	var boxes []string
	for _, n := range s.items {
		style := styleFor(n.Kind)
		// border and padding take four cells
		text := utils.Truncate(iconFor(n.Kind)+" "+n.Text, boxWidth-4)
		boxes = append(boxes, style.Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func styleFor(kind chat.Kind) lipgloss.Style {
	switch kind {
	case chat.KindSuccess:
		return styles.ToastSuccessStyle
	case chat.KindError:
		return styles.ToastErrorStyle
	default:
		return styles.ToastInfoStyle
	}
}

func iconFor(kind chat.Kind) string {
	switch kind {
	case chat.KindSuccess:
		return "✓"
	case chat.KindError:
		return "✗"
	default:
		return "•"
	}
}

// Notifier is a chat.Notifier that hands notifications to the UI loop.
// It never blocks: when the buffer is full the notification is dropped.
type Notifier struct {
	ch     chan chat.Notification
	once   sync.Once
	closed chan struct{}
}

// NewNotifier creates a buffered notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		ch:     make(chan chat.Notification, notifierBuffer),
		closed: make(chan struct{}),
	}
}

// Notify implements chat.Notifier.
func (n *Notifier) Notify(note chat.Notification) {
	select {
	case <-n.closed:
		return
	default:
	}
	select {
	case n.ch <- note:
	default:
		slog.Warn("toast_dropped", "text", note.Text)
	}
}

// Listen waits for the next notification. Re-issue it after each ShowMsg.
func (n *Notifier) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case note := <-n.ch:
			return ShowMsg{Notification: note}
		case <-n.closed:
			return nil
		}
	}
}

// Close stops any pending Listen.
func (n *Notifier) Close() {
	n.once.Do(func() {
		close(n.closed)
	})
}

// Render joins the toast block over the top-right corner of base.
func Render(base string, s *Stack, width int) string {
	overlay := s.View(width)
	if overlay == "" {
		return base
	}
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")
	for i, line := range overlayLines {
		row := i + 1
		if row >= len(baseLines) {
			break
		}
		w := lipgloss.Width(line)
		left := width - w
		if left < 0 {
			left = 0
		}
		baseLines[row] = utils.Pad(utils.Cut(baseLines[row], left), left) + line
	}
	return strings.Join(baseLines, "\n")
}
