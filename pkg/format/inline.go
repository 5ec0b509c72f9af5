// Package format renders chat text. It understands a fixed set of inline
// markers (**bold**, *italic*, `code`, bare http(s) links and line breaks)
// and emits HTML, styled terminal text or plain text.
package format

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

type spanStyle uint8

const (
	styleBold spanStyle = 1 << iota
	styleItalic
	styleCode
	styleLink
)

type span struct {
	text  string
	style spanStyle
}

func (s span) has(style spanStyle) bool {
	return s.style&style != 0
}

// Alternation is leftmost-first, so a code span hides markers inside it.
var (
	inlinePattern = regexp.MustCompile("\\*\\*(.+?)\\*\\*|\\*(.+?)\\*|`(.+?)`|(https?://[^\\s<\\x1b]+)")
	linkPattern   = regexp.MustCompile(`https?://[^\s<\x1b]+`)
)

// parseInline splits a single line into styled spans.
func parseInline(line string) []span {
	var spans []span
	pos := 0
	for _, m := range inlinePattern.FindAllStringSubmatchIndex(line, -1) {
		if m[0] > pos {
			spans = append(spans, span{text: line[pos:m[0]]})
		}
		switch {
		case m[2] >= 0:
			spans = append(spans, linkify(line[m[2]:m[3]], styleBold)...)
		case m[4] >= 0:
			spans = append(spans, linkify(line[m[4]:m[5]], styleItalic)...)
		case m[6] >= 0:
			spans = append(spans, span{text: line[m[6]:m[7]], style: styleCode})
		case m[8] >= 0:
			spans = append(spans, span{text: line[m[8]:m[9]], style: styleLink})
		}
		pos = m[1]
	}
	if pos < len(line) {
		spans = append(spans, span{text: line[pos:]})
	}
	return spans
}

// linkify marks bare URLs inside an emphasised run.
func linkify(text string, base spanStyle) []span {
	var spans []span
	pos := 0
	for _, m := range linkPattern.FindAllStringIndex(text, -1) {
		if m[0] > pos {
			spans = append(spans, span{text: text[pos:m[0]], style: base})
		}
		spans = append(spans, span{text: text[m[0]:m[1]], style: base | styleLink})
		pos = m[1]
	}
	if pos < len(text) {
		spans = append(spans, span{text: text[pos:], style: base})
	}
	return spans
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

// Plain returns text with escape sequences, control characters and invalid
// UTF-8 removed. Newlines and tabs are kept.
func Plain(text string) string {
	if text == "" {
		return text
	}
	text = strings.ToValidUTF8(text, "")
	stripped := ansi.Strip(strings.ReplaceAll(text, "\r\n", "\n"))

	var sb strings.Builder
	sb.Grow(len(stripped))
	for _, r := range stripped {
		switch r {
		case '\n', '\t':
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
