package tui

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
)

const collapsedWidth = 80

var (
	hiliteSpan  = regexp.MustCompile(`(?s)<span class=['"]hilite['"]>(.*?)</span>`)
	blockTag    = regexp.MustCompile(`(?i)<(br|/p|/div|/li)\s*/?>`)
	whitespace  = regexp.MustCompile(`[ \t]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	hiliteStyle = lipgloss.NewStyle().Reverse(true)
)

// textRenderer turns backend HTML fragments into terminal text. Search
// highlights survive as reverse video; every other tag is dropped.
type textRenderer struct {
	policy *bluemonday.Policy
}

func newTextRenderer() *textRenderer {
	return &textRenderer{policy: bluemonday.StrictPolicy()}
}

func (r *textRenderer) render(s string) string {
	var b strings.Builder

	last := 0

	for _, m := range hiliteSpan.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(r.strip(s[last:m[0]]))
		b.WriteString(hiliteStyle.Render(r.strip(s[m[2]:m[3]])))
		last = m[1]
	}

	b.WriteString(r.strip(s[last:]))

	return strings.TrimSpace(blankLines.ReplaceAllString(b.String(), "\n\n"))
}

func (r *textRenderer) strip(s string) string {
	s = blockTag.ReplaceAllString(s, "\n")
	s = html.UnescapeString(r.policy.Sanitize(s))

	return whitespace.ReplaceAllString(s, " ")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-1]) + "…"
}
