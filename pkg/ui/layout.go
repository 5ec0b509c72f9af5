package ui

import (
	"taskchat/pkg/ui/components/toast"

	"charm.land/lipgloss/v2"
)

// statusBarHeight is the single line reserved below the chat panel.
const statusBarHeight = 1

// resize hands the current terminal size to every component.
func (m *Model) resize() {
	panelHeight := m.height - statusBarHeight
	if panelHeight < 1 {
		panelHeight = 1
	}
	m.chatPanel.SetSize(m.width, panelHeight)
	m.statusBar.SetWidth(m.width)
	m.devPanel.SetSize(m.width, panelHeight)
	m.resultPanel.SetSize(m.width, panelHeight)
	m.palette.SetSize(m.width, panelHeight)
}

// render builds the full screen: the chat panel (or an overlay in its place)
// with toasts in the top-right corner, then the status bar.
func (m Model) render() string {
	if !m.ready {
		return "Initializing..."
	}

	panelHeight := m.height - statusBarHeight
	if panelHeight < 1 {
		panelHeight = 1
	}

	var main string
	switch {
	case m.resultPanel.IsVisible():
		main = lipgloss.Place(m.width, panelHeight, lipgloss.Center, lipgloss.Center, m.resultPanel.View())
	case m.devPanel.IsVisible():
		main = lipgloss.Place(m.width, panelHeight, lipgloss.Center, lipgloss.Center, m.devPanel.View())
	case m.palette.IsVisible():
		main = lipgloss.Place(m.width, panelHeight, lipgloss.Center, lipgloss.Bottom, m.palette.View())
	default:
		main = m.chatPanel.View()
	}
	main = toast.Render(main, m.toasts, m.width)

	return lipgloss.JoinVertical(lipgloss.Left, main, m.statusBar.Render())
}
