package welcome

import (
	"fmt"
	"strings"

	"taskchat/pkg/ui/components/utils"
	"taskchat/pkg/ui/styles"
	"taskchat/pkg/version"

	"github.com/mattn/go-runewidth"
)

const maxBoxWidth = 53

// Suggestions are the canned prompts offered while the transcript is empty.
// Alt+1 through Alt+4 send them.
var Suggestions = []string{
	"Summarize my open tasks",
	"Create a task to review the release notes",
	"What is due this week?",
	"Show the status of the last job",
}

// Suggestion returns the prompt bound to alt+n, or false when none is.
func Suggestion(key string) (string, bool) {
	var n int
	if _, err := fmt.Sscanf(key, "alt+%d", &n); err != nil {
		return "", false
	}
	if n < 1 || n > len(Suggestions) {
		return "", false
	}
	return Suggestions[n-1], true
}

// Lines returns the welcome box, sized to fit width.
func Lines(width int) []string {
	boxWidth := maxBoxWidth
	if width-2 < boxWidth {
		boxWidth = width - 2
	}
	if boxWidth < 10 {
		return []string{styles.WelcomeTitleStyle.Render(utils.Truncate("Welcome to taskchat", width))}
	}

	makeLine := func(content string, visualWidth int) string {
		pad := boxWidth - visualWidth
		if pad < 0 {
			pad = 0
		}
		return styles.WelcomeBorderStyle.Render("│") + content + strings.Repeat(" ", pad) + styles.WelcomeBorderStyle.Render("│")
	}

	top := styles.WelcomeBorderStyle.Render("╭" + strings.Repeat("─", boxWidth) + "╮")
	bottom := styles.WelcomeBorderStyle.Render("╰" + strings.Repeat("─", boxWidth) + "╯")
	empty := makeLine("", 0)

	var lines []string
	lines = append(lines, top)

	titleText := utils.Truncate("✨ Welcome to taskchat ✨", boxWidth)
	rawTitleWidth := runewidth.StringWidth(titleText)
	titleLeftPad := (boxWidth - rawTitleWidth) / 2
	titleLine := strings.Repeat(" ", titleLeftPad) + styles.WelcomeTitleStyle.Render(titleText)
	lines = append(lines, makeLine(titleLine, titleLeftPad+rawTitleWidth))

	lines = append(lines, empty)

	header := "  Try asking:"
	lines = append(lines, makeLine(styles.WelcomeHeaderStyle.Render(header), runewidth.StringWidth(header)))

	for i, s := range Suggestions {
		keyFormatted := fmt.Sprintf("    Alt+%d  ", i+1)
		desc := utils.Truncate(s, boxWidth-runewidth.StringWidth(keyFormatted))
		line := styles.WelcomeKeyStyle.Render(keyFormatted) + styles.TextStyle.Render(desc)
		lines = append(lines, makeLine(line, runewidth.StringWidth(keyFormatted)+runewidth.StringWidth(desc)))
	}

	lines = append(lines, empty)

	versionText := utils.Truncate(version.Summary(), boxWidth-4)
	versionLeftPad := (boxWidth - runewidth.StringWidth(versionText)) / 2
	versionLine := strings.Repeat(" ", versionLeftPad) + styles.WelcomeVersionStyle.Render(versionText)
	lines = append(lines, makeLine(versionLine, versionLeftPad+runewidth.StringWidth(versionText)))

	lines = append(lines, bottom)
	return lines
}
