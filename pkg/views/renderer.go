// Package views renders the rulebook viewer as HTML.
package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/ksysoev/rulebook/pkg/webapp"
)

var errOddVals = errors.New("vals expects key/value pairs")

// Renderer renders HTML views of an application snapshot.
type Renderer struct {
	appFull      *template.Template
	appPartial   *template.Template
	notFoundFull *template.Template
}

// New creates a new view Renderer with all templates parsed.
func New() *Renderer {
	funcMap := template.FuncMap{
		"html":  fragmentFunc(newPolicy()),
		"vals":  vals,
		"deref": deref,
	}

	shared := partials + accordionBody

	return &Renderer{
		appFull:      template.Must(template.New("app_full").Funcs(funcMap).Parse(layoutHeader + shared + appBody + layoutFooter)),
		appPartial:   template.Must(template.New("app_partial").Funcs(funcMap).Parse(shared + appBody)),
		notFoundFull: template.Must(template.New("notfound").Funcs(funcMap).Parse(layoutHeader + notFoundBody + layoutFooter)),
	}
}

// RenderApp renders the application. A partial render is only the #app
// region, which HTMX swaps in place.
func (v *Renderer) RenderApp(w io.Writer, snap *webapp.Snapshot, partial bool) error {
	tmpl := v.appFull
	if partial {
		tmpl = v.appPartial
	}

	return execTemplate(w, tmpl, snap)
}

// RenderNotFound renders the 404 not found page.
func (v *Renderer) RenderNotFound(w io.Writer) error {
	return execTemplate(w, v.notFoundFull, &webapp.Snapshot{})
}

func execTemplate(w io.Writer, tmpl *template.Template, data any) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", tmpl.Name(), err)
	}

	return nil
}

// vals encodes key/value pairs as the JSON object HTMX reads from hx-vals.
func vals(kv ...any) (string, error) {
	if len(kv)%2 != 0 {
		return "", errOddVals
	}

	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}

	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode vals: %w", err)
	}

	return string(data), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
