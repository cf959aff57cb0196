package webapp

import "net/url"

// Options are the debugging and testing switches passed on the page URL.
type Options struct {
	// Query is searched for once the application has loaded.
	Query string
	// NoContent replaces the document viewer with a placeholder.
	NoContent bool
	// AddEmptyDoc appends a synthetic content doc without a URL.
	AddEmptyDoc bool
	// NoAnimations disables transitions in the rendered page.
	NoAnimations bool
	// StoreMsgs keeps notification text in a list instead of showing toasts.
	StoreMsgs bool
}

// ParseOptions reads Options from URL query parameters. A flag parameter
// is on when it is present with any value other than "0" or "false".
func ParseOptions(q url.Values) Options {
	query := q.Get("query")
	if query == "" {
		query = q.Get("q")
	}

	return Options{
		Query:        query,
		NoContent:    flagParam(q, "no-content"),
		AddEmptyDoc:  flagParam(q, "add-empty-doc"),
		NoAnimations: flagParam(q, "no-animations"),
		StoreMsgs:    flagParam(q, "store-msgs"),
	}
}

func flagParam(q url.Values, name string) bool {
	if !q.Has(name) {
		return false
	}

	switch q.Get(name) {
	case "0", "false":
		return false
	default:
		return true
	}
}
