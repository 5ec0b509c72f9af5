// Package palette lists the slash commands and lets the user pick one with
// the arrow keys. Typing narrows the list.
package palette

import (
	"strings"

	"taskchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const maxBoxWidth = 60

// Command is one palette entry.
type Command struct {
	Name        string
	Description string
}

// SelectMsg is sent when a command is picked.
type SelectMsg struct {
	Command string
}

// CancelMsg is sent when the palette is dismissed without a pick.
type CancelMsg struct{}

// CommandPalette displays available slash commands
type CommandPalette struct {
	commands []Command
	selected int
	filter   string
	visible  bool
	width    int
	height   int
}

// NewCommandPalette creates a palette over commands, in the given order.
func NewCommandPalette(commands ...Command) *CommandPalette {
	return &CommandPalette{commands: commands}
}

// Show makes the palette visible with an empty filter.
func (p *CommandPalette) Show() {
	p.visible = true
	p.selected = 0
	p.filter = ""
}

// Hide hides the palette
func (p *CommandPalette) Hide() {
	p.visible = false
}

// IsVisible returns whether the palette is visible
func (p *CommandPalette) IsVisible() bool {
	return p.visible
}

// SetSize sets the palette dimensions
func (p *CommandPalette) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Filter returns the text typed since the palette opened.
func (p *CommandPalette) Filter() string {
	return p.filter
}

func (p *CommandPalette) filteredCommands() []Command {
	if p.filter == "" {
		return p.commands
	}
	filter := strings.ToLower(p.filter)
	var filtered []Command
	for _, cmd := range p.commands {
		if strings.Contains(strings.ToLower(cmd.Name), filter) ||
			strings.Contains(strings.ToLower(cmd.Description), filter) {
			filtered = append(filtered, cmd)
		}
	}
	return filtered
}

// Selected returns the highlighted command name, or "" when nothing matches.
func (p *CommandPalette) Selected() string {
	filtered := p.filteredCommands()
	if p.selected < len(filtered) {
		return filtered[p.selected].Name
	}
	return ""
}

// Update handles keyboard input for the palette
func (p *CommandPalette) Update(msg tea.KeyPressMsg) tea.Cmd {
	filtered := p.filteredCommands()

	switch msg.String() {
	case "up":
		if p.selected > 0 {
			p.selected--
		}
		return nil

	case "down":
		if p.selected < len(filtered)-1 {
			p.selected++
		}
		return nil

	case "enter", "tab":
		name := p.Selected()
		if name == "" {
			return nil
		}
		p.Hide()
		return func() tea.Msg { return SelectMsg{Command: name} }

	case "esc":
		p.Hide()
		return func() tea.Msg { return CancelMsg{} }

	case "backspace":
		if p.filter == "" {
			p.Hide()
			return func() tea.Msg { return CancelMsg{} }
		}
		r := []rune(p.filter)
		p.filter = string(r[:len(r)-1])
		p.selected = 0
		return nil
	}

	if text := msg.Key().Text; text != "" {
		p.filter += text
		p.selected = 0
	}
	return nil
}

// View renders the command palette
func (p *CommandPalette) View() string {
	if !p.visible {
		return ""
	}

	boxWidth := p.width
	if boxWidth > maxBoxWidth {
		boxWidth = maxBoxWidth
	}
	if boxWidth < 1 {
		boxWidth = maxBoxWidth
	}

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render("Commands"))
	content.WriteString("\n")
	if p.filter != "" {
		content.WriteString(styles.TextMutedStyle.Render("Filter: /" + p.filter))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	filtered := p.filteredCommands()
	if len(filtered) == 0 {
		content.WriteString(styles.TextMutedStyle.Render("No matching commands"))
		content.WriteString("\n")
	}

	nameWidth := 4
	for _, cmd := range filtered {
		if w := lipgloss.Width(cmd.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for i, cmd := range filtered {
		label := "  " + cmd.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(cmd.Name)) + " "
		if i == p.selected {
			content.WriteString(styles.SelectedStyle.Render(label))
		} else {
			content.WriteString(styles.TextStyle.Render(label))
		}
		content.WriteString(" " + styles.TextMutedStyle.Render(cmd.Description) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(styles.TextMutedStyle.Render("↑↓ Navigate • Enter Select • Esc Cancel"))

	return styles.BoxStyleCompact.Width(boxWidth).MaxWidth(boxWidth).Render(content.String())
}
