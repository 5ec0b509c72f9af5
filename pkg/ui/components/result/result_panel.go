package result

import (
	"strings"

	"taskchat/pkg/ui/components/utils"
	"taskchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

const scrollPage = 10

// ResultPanel displays slash command output
type ResultPanel struct {
	title   string
	visible bool
	isError bool
	width   int
	height  int
	scrollY int
	lines   []string
}

// NewResultPanel creates a new result panel
func NewResultPanel() *ResultPanel {
	return &ResultPanel{}
}

// Show displays the result panel with content
func (rp *ResultPanel) Show(title, content string) {
	rp.title = title
	rp.isError = false
	rp.visible = true
	rp.scrollY = 0
	rp.lines = strings.Split(content, "\n")
}

// ShowError displays an error message in the panel
func (rp *ResultPanel) ShowError(title, message string) {
	rp.Show(title, message)
	rp.isError = true
}

// Hide hides the result panel
func (rp *ResultPanel) Hide() {
	rp.visible = false
}

// IsVisible returns whether the panel is visible
func (rp *ResultPanel) IsVisible() bool {
	return rp.visible
}

// SetSize sets the panel dimensions
func (rp *ResultPanel) SetSize(width, height int) {
	rp.width = width
	rp.height = height
}

// CloseMsg is sent when the result panel is closed
type CloseMsg struct{}

// Update handles keyboard input for the result panel
func (rp *ResultPanel) Update(msg tea.KeyPressMsg) tea.Cmd {
	maxScroll := len(rp.lines) - rp.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}

	switch msg.String() {
	case "esc", "enter", "q":
		rp.Hide()
		return func() tea.Msg {
			return CloseMsg{}
		}
	case "up":
		if rp.scrollY > 0 {
			rp.scrollY--
		}
	case "down":
		if rp.scrollY < maxScroll {
			rp.scrollY++
		}
	case "pgup":
		rp.scrollY -= scrollPage
		if rp.scrollY < 0 {
			rp.scrollY = 0
		}
	case "pgdown":
		rp.scrollY += scrollPage
		if rp.scrollY > maxScroll {
			rp.scrollY = maxScroll
		}
	}
	return nil
}

func (rp *ResultPanel) panelSize() (int, int) {
	panelWidth := rp.width - 4
	if panelWidth > 80 {
		panelWidth = 80
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	panelHeight := rp.height - 4
	if panelHeight > 30 {
		panelHeight = 30
	}
	return panelWidth, panelHeight
}

// visibleLines is the panel height minus title, footer, borders and padding.
func (rp *ResultPanel) visibleLines() int {
	_, panelHeight := rp.panelSize()
	n := panelHeight - 8
	if n < 5 {
		n = 5
	}
	return n
}

// View renders the result panel
func (rp *ResultPanel) View() string {
	if !rp.visible {
		return ""
	}

	panelWidth, _ := rp.panelSize()
	contentWidth := panelWidth - 6

	contentStyle := styles.TextStyle
	if rp.isError {
		contentStyle = styles.ErrorStyle
	}

	var sb strings.Builder
	sb.WriteString(styles.TitleStyle.Render(utils.Truncate(rp.title, contentWidth)))
	sb.WriteString("\n\n")

	visible := rp.visibleLines()
	endLine := rp.scrollY + visible
	if endLine > len(rp.lines) {
		endLine = len(rp.lines)
	}
	for i := rp.scrollY; i < endLine; i++ {
		sb.WriteString(contentStyle.Render(utils.Truncate(rp.lines[i], contentWidth)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if len(rp.lines) > visible {
		sb.WriteString(styles.FooterStyle.Render("↑↓ Scroll • "))
	}
	sb.WriteString(styles.FooterStyle.Render("Esc/q Close"))

	return styles.BoxStyle.Width(panelWidth).Render(sb.String())
}
