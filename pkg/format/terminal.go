package format

import (
	"strings"
	"unicode"

	"taskchat/pkg/ui/styles"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Styles controls how Terminal paints each kind of run.
type Styles struct {
	Text   lipgloss.Style
	Bold   lipgloss.Style
	Italic lipgloss.Style
	Code   lipgloss.Style
	Link   lipgloss.Style
}

// DefaultStyles uses the application theme.
func DefaultStyles() Styles {
	return Styles{
		Text:   styles.TextStyle,
		Bold:   styles.TextBoldStyle,
		Italic: styles.TextItalicStyle,
		Code:   styles.CodeStyle,
		Link:   styles.LinkStyle,
	}
}

// Terminal renders text as styled lines no wider than width.
func Terminal(text string, width int) []string {
	return TerminalWith(text, width, DefaultStyles())
}

// TerminalWith renders text with the given styles. Escape sequences in the
// input are removed before any styling is added. Links carry OSC 8
// hyperlinks. Lines inside ``` fences are shown verbatim in the code style.
func TerminalWith(text string, width int, st Styles) []string {
	rawLines := splitLines(Plain(text))

	var rendered []string
	inCode := false
	for _, line := range rawLines {
		line = strings.ReplaceAll(line, "\t", "    ")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			rendered = append(rendered, renderCodeLine(line, width, st)...)
			continue
		}
		if strings.TrimSpace(line) == "" {
			rendered = append(rendered, "")
			continue
		}
		rendered = append(rendered, wrapTokens(tokenize(parseInline(line)), width, st)...)
	}

	if len(rendered) == 0 {
		return []string{""}
	}
	return rendered
}

type token struct {
	text  string
	style spanStyle
	href  string
	// space is true when a blank separated this token from the previous one.
	space bool
}

func tokenize(spans []span) []token {
	var tokens []token
	space := false
	add := func(text string, style spanStyle, href string) {
		tokens = append(tokens, token{text: text, style: style, href: href, space: space && len(tokens) > 0})
		space = false
	}

	for _, sp := range spans {
		if sp.has(styleLink) {
			add(sp.text, sp.style, sp.text)
			continue
		}
		start := -1
		for i, r := range sp.text {
			if unicode.IsSpace(r) {
				if start >= 0 {
					add(sp.text[start:i], sp.style, "")
					start = -1
				}
				space = true
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			add(sp.text[start:], sp.style, "")
		}
	}
	return tokens
}

func wrapTokens(tokens []token, width int, st Styles) []string {
	if len(tokens) == 0 {
		return []string{""}
	}
	if width <= 0 {
		return []string{renderTokenLine(tokens, st)}
	}

	var lines []string
	var lineTokens []token
	lineWidth := 0

	flush := func() {
		lines = append(lines, renderTokenLine(lineTokens, st))
		lineTokens = nil
		lineWidth = 0
	}

	for _, tok := range tokens {
		for i, part := range splitByWidth(tok.text, width) {
			partWidth := runewidth.StringWidth(part)
			sep := 0
			if i == 0 && tok.space && lineWidth > 0 {
				sep = 1
			}
			if lineWidth > 0 && lineWidth+sep+partWidth > width {
				flush()
				sep = 0
			}
			lineTokens = append(lineTokens, token{text: part, style: tok.style, href: tok.href, space: sep == 1})
			lineWidth += sep + partWidth
		}
	}
	if len(lineTokens) > 0 {
		flush()
	}
	return lines
}

func renderTokenLine(tokens []token, st Styles) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.space {
			sb.WriteString(" ")
		}
		sb.WriteString(renderToken(tok, st))
	}
	return sb.String()
}

func renderToken(tok token, st Styles) string {
	style := st.Text
	switch {
	case tok.style&styleCode != 0:
		style = st.Code
	case tok.style&styleLink != 0:
		style = st.Link
	case tok.style&styleBold != 0:
		style = st.Bold
	case tok.style&styleItalic != 0:
		style = st.Italic
	}
	if tok.href != "" {
		if tok.style&styleBold != 0 {
			style = style.Bold(true)
		}
		if tok.style&styleItalic != 0 {
			style = style.Italic(true)
		}
		return ansi.SetHyperlink(tok.href) + style.Render(tok.text) + ansi.ResetHyperlink()
	}
	return style.Render(tok.text)
}

func renderCodeLine(line string, width int, st Styles) []string {
	if width <= 0 {
		return []string{st.Code.Render(line)}
	}
	parts := splitByWidth(line, width)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, st.Code.Render(padPlain(part, width)))
	}
	return lines
}

func splitByWidth(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{text}
	}

	var parts []string
	var sb strings.Builder
	currentWidth := 0
	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width && currentWidth > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			currentWidth = 0
		}
		sb.WriteRune(r)
		currentWidth += runeWidth
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

func padPlain(text string, width int) string {
	textWidth := runewidth.StringWidth(text)
	if textWidth >= width {
		return text
	}
	return text + strings.Repeat(" ", width-textWidth)
}
