package webapp

import "github.com/ksysoev/rulebook/pkg/bus"

// PaneEntry is a line in an accordion pane. An entry without a key is shown
// but cannot be clicked.
type PaneEntry struct {
	Key     string
	Caption string
}

// Pane is one pane of an accordion.
type Pane struct {
	Key           string
	Title         string
	IconURL       string
	BackgroundURL string
	Entries       []PaneEntry
	expanded      bool
}

// Expanded reports whether the pane is open.
func (p *Pane) Expanded() bool { return p.expanded }

// AccordionHandlers receive the pane transitions of an accordion.
type AccordionHandlers struct {
	OnExpanded  func(paneKey string, userClick bool)
	OnCollapsed func(paneKey string, userClick bool)
	OnEntry     func(paneKey string, entry PaneEntry)
}

// Accordion is a set of panes of which at most one is open.
type Accordion struct {
	bus      *bus.Bus
	handlers AccordionHandlers
	id       string
	panes    []*Pane
	subs     subscriptions
}

// NewAccordion creates an accordion listening for ExpandPane events addressed to id.
func NewAccordion(b *bus.Bus, id string, handlers AccordionHandlers) *Accordion {
	a := &Accordion{bus: b, id: id, handlers: handlers}

	a.subs.add(bus.On(b, a.onExpandPane))

	return a
}

// ID returns the accordion id.
func (a *Accordion) ID() string { return a.id }

// AddPane appends a pane. Panes keep the order they were added in.
func (a *Accordion) AddPane(p *Pane) {
	a.panes = append(a.panes, p)
}

// Panes returns the panes in order.
func (a *Accordion) Panes() []*Pane { return a.panes }

// Pane returns the pane with the given key.
func (a *Accordion) Pane(key string) (*Pane, bool) {
	for _, p := range a.panes {
		if p.Key == key {
			return p, true
		}
	}

	return nil, false
}

// Expanded returns the key of the open pane, or "" when all are closed.
func (a *Accordion) Expanded() string {
	for _, p := range a.panes {
		if p.expanded {
			return p.Key
		}
	}

	return ""
}

// ClickTitle toggles a pane: an open pane closes, a closed one opens.
func (a *Accordion) ClickTitle(key string) {
	p, ok := a.Pane(key)
	if !ok {
		return
	}

	next := p.Key
	if p.expanded {
		next = ""
	}

	a.bus.Emit(bus.ExpandPane{Accordion: a.id, Key: next, UserClick: true})
}

// ClickEntry reports a click on a pane entry. Entries without a key are ignored.
func (a *Accordion) ClickEntry(paneKey, entryKey string) bool {
	p, ok := a.Pane(paneKey)
	if !ok || entryKey == "" {
		return false
	}

	for _, e := range p.Entries {
		if e.Key == entryKey {
			if a.handlers.OnEntry != nil {
				a.handlers.OnEntry(p.Key, e)
			}

			return true
		}
	}

	return false
}

func (a *Accordion) onExpandPane(ev bus.ExpandPane) {
	if ev.Accordion != a.id {
		return
	}

	for _, p := range a.panes {
		expanded := ev.Key != "" && p.Key == ev.Key

		switch {
		case p.expanded && !expanded:
			p.expanded = false

			if a.handlers.OnCollapsed != nil {
				a.handlers.OnCollapsed(p.Key, ev.UserClick)
			}
		case !p.expanded && expanded:
			p.expanded = true

			if a.handlers.OnExpanded != nil {
				a.handlers.OnExpanded(p.Key, ev.UserClick)
			}
		}
	}
}

// Close detaches the accordion from the bus.
func (a *Accordion) Close() {
	a.subs.close()
}
