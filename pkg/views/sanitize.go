package views

import (
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// markupClassPattern matches the classes the application itself puts into
// backend fragments: search highlights, exception notes, ASOP captions and
// notification details.
var markupClassPattern = regexp.MustCompile(`^(hilite|exc|caption|pre)$`)

// newPolicy returns the policy backend HTML fragments are sanitized with.
func newPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(markupClassPattern).OnElements("span", "div")
	policy.AllowAttrs("title").OnElements("span")

	return policy
}

// fragmentFunc returns the "html" template function: it sanitizes a fragment
// and marks the result safe for the template.
func fragmentFunc(policy *bluemonday.Policy) func(string) template.HTML {
	return func(s string) template.HTML {
		return template.HTML(policy.Sanitize(s)) //nolint:gosec // sanitized by bluemonday above
	}
}
