package statusbar

import (
	"fmt"
	"strings"

	"taskchat/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

const appLabel = "[taskchat]"

// StatusBarView renders the single-line bar above the chat panel.
type StatusBarView struct {
	backendURL string
	connected  bool
	message    string
	width      int
}

// NewStatusBarView creates a status bar for an unconnected backend.
func NewStatusBarView() *StatusBarView {
	return &StatusBarView{width: 80}
}

// SetBackendURL updates the backend shown in the bar.
func (s *StatusBarView) SetBackendURL(url string) {
	s.backendURL = strings.TrimSpace(url)
}

// SetConnected updates the connection indicator.
func (s *StatusBarView) SetConnected(connected bool) {
	s.connected = connected
}

// SetMessage sets a temporary message that replaces the help hint.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = msg
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar string
func (s *StatusBarView) Render() string {
	dotStyle := styles.StatusDisconnectedStyle
	state := "Disconnected"
	if s.connected {
		dotStyle = styles.StatusConnectedStyle
		state = "Connected"
	}

	url := s.backendURL
	if url == "" {
		url = "no backend"
	}
	hint := "/help for commands"
	if s.message != "" {
		hint = s.message
	}
	content := fmt.Sprintf("%s %s | %s | %s", appLabel, url, state, hint)

	// Truncate if too long (ANSI-aware width).
	maxWidth := s.width - 4
	if maxWidth < 10 {
		maxWidth = 10
	}
	if ansi.StringWidth(content) > maxWidth {
		content = ansi.Truncate(content, maxWidth, "...")
	}

	dot := dotStyle.Render("●")
	styled := styles.StatusBarStyle.Render(dot + " " + content)

	if w := ansi.StringWidth(styled); w < s.width {
		styled += strings.Repeat(" ", s.width-w)
	}
	return styled
}
