package format

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "em", "code", "br")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HTML renders text as an HTML fragment. Control characters and invalid
// UTF-8 are dropped, every text run is escaped before markup is added, and
// the result is filtered through an allow-list so only strong, em, code, br
// and http(s) links survive.
func HTML(text string) string {
	lines := splitLines(Plain(text))
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("<br>")
		}
		for _, sp := range parseInline(line) {
			sb.WriteString(renderHTMLSpan(sp))
		}
	}
	return htmlPolicy.Sanitize(sb.String())
}

func renderHTMLSpan(sp span) string {
	out := html.EscapeString(sp.text)
	if sp.has(styleLink) {
		out = `<a href="` + out + `">` + out + `</a>`
	}
	if sp.has(styleCode) {
		out = "<code>" + out + "</code>"
	}
	if sp.has(styleItalic) {
		out = "<em>" + out + "</em>"
	}
	if sp.has(styleBold) {
		out = "<strong>" + out + "</strong>"
	}
	return out
}
