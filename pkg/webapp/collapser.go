package webapp

import (
	"html"
	"unicode/utf8"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/microcosm-cc/bluemonday"
)

var textOnly = bluemonday.StrictPolicy()

// textLength returns the length of the text content of an HTML fragment.
func textLength(fragment string) int {
	return utf8.RuneCountInString(html.UnescapeString(textOnly.Sanitize(fragment)))
}

// CollapseStates remembers the collapsed state of collapsers for the
// lifetime of a session, keyed by collapser id.
type CollapseStates struct {
	saved map[string]bool
}

// NewCollapseStates creates an empty cache.
func NewCollapseStates() *CollapseStates {
	return &CollapseStates{saved: make(map[string]bool)}
}

// Get returns the saved state of a collapser.
func (s *CollapseStates) Get(id string) (collapsed, ok bool) {
	collapsed, ok = s.saved[id]
	return collapsed, ok
}

// Set saves the state of a collapser.
func (s *CollapseStates) Set(id string, collapsed bool) {
	s.saved[id] = collapsed
}

// Len returns the number of saved states.
func (s *CollapseStates) Len() int {
	return len(s.saved)
}

// Collapsible is a content region a collapser can shrink.
type Collapsible struct {
	// Content is the HTML of the region.
	Content string
	// Height is the collapsed height in pixels; 0 uses the configured default.
	Height int
}

// Collapser is a tri-state toggle: nil means it is not shown at all,
// true collapsed and false expanded.
type Collapser struct {
	bus       *bus.Bus
	states    *CollapseStates
	region    *Collapsible
	collapsed *bool
	id        string
}

func newCollapser(e *env, id string) *Collapser {
	c := &Collapser{bus: e.bus, states: e.collapse, id: id}

	if id != "" {
		e.collapsers[id] = c
	}

	return c
}

// Init decides the collapser's state. An explicit state wins; otherwise a
// bound region with at least the threshold amount of text starts collapsed
// and a shorter one leaves the collapser hidden. A state saved under the
// collapser's id overrides either, as long as the collapser is shown.
func (c *Collapser) Init(cfg *core.AppConfig, region *Collapsible, explicit *bool) {
	c.region = region
	c.collapsed = nil

	switch {
	case explicit != nil:
		v := *explicit
		c.collapsed = &v
	case region != nil:
		if textLength(region.Content) >= cfg.Threshold() {
			v := true
			c.collapsed = &v
		}
	}

	if c.collapsed == nil || c.id == "" {
		return
	}

	if saved, ok := c.states.Get(c.id); ok {
		c.collapsed = &saved
	}
}

// ID returns the collapser id.
func (c *Collapser) ID() string { return c.id }

// State returns the tri-state value.
func (c *Collapser) State() *bool { return c.collapsed }

// Shown reports whether the collapser is visible at all.
func (c *Collapser) Shown() bool { return c.collapsed != nil }

// Collapsed reports whether the bound region is currently collapsed.
func (c *Collapser) Collapsed() bool { return c.collapsed != nil && *c.collapsed }

// Height returns the collapsed height of the bound region.
func (c *Collapser) Height(cfg *core.AppConfig) int {
	if c.region != nil && c.region.Height > 0 {
		return c.region.Height
	}

	return cfg.Height()
}

// Toggle flips the state, saves it and emits CollapsibleToggled.
// A hidden collapser cannot be toggled.
func (c *Collapser) Toggle() {
	if c.collapsed == nil {
		return
	}

	v := !*c.collapsed
	c.collapsed = &v

	if c.id != "" {
		c.states.Set(c.id, v)
	}

	c.bus.Emit(bus.CollapsibleToggled{CollapserID: c.id, Collapsed: v})
}
