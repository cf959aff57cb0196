package webapp

import "github.com/ksysoev/rulebook/pkg/bus"

// Tab is a page of a tab group.
type Tab struct {
	ID      string
	Caption string
}

// TabbedPages is a group of pages of which exactly one is shown once mounted.
type TabbedPages struct {
	bus    *bus.Bus
	id     string
	active string
	tabs   []Tab
	subs   subscriptions
}

// NewTabbedPages creates a tab group listening for ActivateTab events addressed to id.
func NewTabbedPages(b *bus.Bus, id string) *TabbedPages {
	t := &TabbedPages{bus: b, id: id}

	t.subs.add(bus.On(b, func(ev bus.ActivateTab) {
		if ev.Group == t.id {
			t.Activate(ev.Tab)
		}
	}))

	return t
}

// ID returns the group id.
func (t *TabbedPages) ID() string { return t.id }

// AddPage registers a page. Pages keep the order they were added in.
func (t *TabbedPages) AddPage(id, caption string) {
	t.tabs = append(t.tabs, Tab{ID: id, Caption: caption})
}

// Mount activates the first page if none is active yet.
func (t *TabbedPages) Mount() {
	if t.active == "" && len(t.tabs) > 0 {
		t.Activate(t.tabs[0].ID)
	}
}

// Activate shows the page with the given id and hides the others. Unknown ids are ignored.
func (t *TabbedPages) Activate(id string) bool {
	if !t.Has(id) {
		return false
	}

	t.active = id
	t.bus.Emit(bus.TabActivated{Group: t.id, Tab: id})

	return true
}

// Has reports whether a page with the given id is registered.
func (t *TabbedPages) Has(id string) bool {
	for _, tab := range t.tabs {
		if tab.ID == id {
			return true
		}
	}

	return false
}

// Active returns the id of the visible page.
func (t *TabbedPages) Active() string { return t.active }

// Visible reports whether the page with the given id is the one shown.
func (t *TabbedPages) Visible(id string) bool { return t.active != "" && t.active == id }

// Tabs returns the pages in order.
func (t *TabbedPages) Tabs() []Tab { return t.tabs }

// Close detaches the group from the bus.
func (t *TabbedPages) Close() {
	t.subs.close()
}
