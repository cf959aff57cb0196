package core

import (
	"regexp"
	"strings"
)

// The backend marks search terms in returned content with these tokens.
const (
	HiliteBegin = "!@:"
	HiliteEnd   = ":@!"
)

const (
	hiliteSpanOpen  = "<span class='hilite'>"
	hiliteSpanClose = "</span>"
)

// excRE matches exception notes such as "[EXC: Night]".
var excRE = regexp.MustCompile(`\[EXC: .*?\]`)

// HasHilite reports whether s contains a highlight, either as a raw marker
// or as an already converted span. A nil s has no highlight.
func HasHilite(s *string) bool {
	if s == nil {
		return false
	}

	return strings.Contains(*s, HiliteBegin) || strings.Contains(*s, hiliteSpanOpen)
}

// FixupSearchHilites converts highlight markers into highlight spans.
// A nil value is returned unchanged.
func FixupSearchHilites(s *string) *string {
	if s == nil {
		return nil
	}

	out := fixupHilites(*s)

	return &out
}

func fixupHilites(s string) string {
	s = strings.ReplaceAll(s, HiliteBegin, hiliteSpanOpen)

	return strings.ReplaceAll(s, HiliteEnd, hiliteSpanClose)
}

// StripHilites removes raw highlight markers, leaving the plain text.
func StripHilites(s string) string {
	return strings.NewReplacer(HiliteBegin, "", HiliteEnd, "").Replace(s)
}

// WrapExceptions wraps exception notes in a span so they can be styled.
func WrapExceptions(s string) string {
	return excRE.ReplaceAllStringFunc(s, func(m string) string {
		return "<span class='exc'>" + m + "</span>"
	})
}
