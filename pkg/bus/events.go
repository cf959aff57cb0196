package bus

// Event is implemented by every event that can travel on the bus. The set is
// closed: only the types declared in this file satisfy it.
type Event interface {
	eventName() string
}

// Search runs a search for Query.
type Search struct {
	Query string
}

// SearchFor puts Query into the search box and runs the search.
type SearchFor struct {
	Query string
}

// SearchDone is emitted once a search has settled, whether it produced
// results, jumped straight to a target or failed.
type SearchDone struct {
	ShowCount bool
}

// SRFiltered reports how many search results are visible after filtering.
type SRFiltered struct {
	Visible int
	Total   int
}

// ShowTarget opens a ruleid in a content doc. Rule info is fetched for the
// ruleid unless SuppressRuleInfo is set.
type ShowTarget struct {
	CDocID           string
	Ruleid           string
	SuppressRuleInfo bool
}

// ShowPage opens a content doc at a page.
type ShowPage struct {
	CDocID string
	PageNo int
}

// ActivateTab asks the tab group Group to switch to Tab.
type ActivateTab struct {
	Group string
	Tab   string
}

// TabActivated is emitted after a tab group switched tabs.
type TabActivated struct {
	Group string
	Tab   string
}

// ExpandPane expands pane Key of Accordion and collapses the others.
// An empty Key collapses every pane.
type ExpandPane struct {
	Accordion string
	Key       string
	UserClick bool
}

// ASOPChapterExpanded is emitted when an ASOP chapter pane opens. Only a
// pane opened by the user shows the whole chapter.
type ASOPChapterExpanded struct {
	ChapterID string
	UserClick bool
}

// ShowASOPSection shows a single ASOP section.
type ShowASOPSection struct {
	SectionID string
}

// ShowASOPEntrySR shows an ASOP section as returned by a search, with its highlights.
type ShowASOPEntrySR struct {
	SectionID string
	Content   string
}

// CollapsibleToggled is emitted after a collapser changed state.
type CollapsibleToggled struct {
	CollapserID string
	Collapsed   bool
}

// EscapePressed is the global cancel action.
type EscapePressed struct{}

// AppConfigLoaded is emitted once the application config has arrived.
type AppConfigLoaded struct{}

// AppLoaded is emitted once every startup fetch has settled.
type AppLoaded struct{}

func (Search) eventName() string              { return "search" }
func (SearchFor) eventName() string           { return "search-for" }
func (SearchDone) eventName() string          { return "search-done" }
func (SRFiltered) eventName() string          { return "sr-filtered" }
func (ShowTarget) eventName() string          { return "show-target" }
func (ShowPage) eventName() string            { return "show-page" }
func (ActivateTab) eventName() string         { return "activate-tab" }
func (TabActivated) eventName() string        { return "tab-activated" }
func (ExpandPane) eventName() string          { return "expand-pane" }
func (ASOPChapterExpanded) eventName() string { return "asop-chapter-expanded" }
func (ShowASOPSection) eventName() string     { return "show-asop-section" }
func (ShowASOPEntrySR) eventName() string     { return "show-asop-entry-sr" }
func (CollapsibleToggled) eventName() string  { return "collapsible-toggled" }
func (EscapePressed) eventName() string       { return "escape-pressed" }
func (AppConfigLoaded) eventName() string     { return "app-config-loaded" }
func (AppLoaded) eventName() string           { return "app-loaded" }

// Name returns the wire name of an event, as used in logs.
func Name(e Event) string {
	return e.eventName()
}
