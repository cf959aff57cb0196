package webapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

var srFilterLabels = map[core.SRType]string{
	core.SRIndex:     "Index",
	core.SRQA:        "Q+A",
	core.SRErrata:    "Errata",
	core.SRASOPEntry: "ASOP",
}

// SRFilter is the checkbox that shows or hides one type of search result.
type SRFilter struct {
	Type    core.SRType
	Label   string
	Enabled bool
	Checked bool
}

// SearchBox holds the query text, the result filters and the result count.
type SearchBox struct {
	env         *env
	settings    *Settings
	results     *SearchResults
	blocked     func() bool
	query       string
	countText   string
	countInfo   string
	filters     []SRFilter
	subs        subscriptions
	showFilters bool
	showCount   bool
}

func newSearchBox(e *env, settings *Settings, results *SearchResults, blocked func() bool) *SearchBox {
	sb := &SearchBox{env: e, settings: settings, results: results, blocked: blocked}

	for _, t := range core.FilterableSRTypes {
		sb.filters = append(sb.filters, SRFilter{Type: t, Label: srFilterLabels[t], Checked: true})
	}

	sb.subs.add(bus.On(e.bus, func(bus.AppConfigLoaded) { sb.initFilters() }))
	sb.subs.add(bus.On(e.bus, func(ev bus.SearchDone) {
		sb.showCount = ev.ShowCount
		if ev.ShowCount {
			sb.updateCount()
		}
	}))
	sb.subs.add(bus.On(e.bus, func(ev bus.SearchFor) {
		sb.query = ev.Query
		sb.Submit()
	}))

	return sb
}

// initFilters enables the filters whose result type the backend can produce.
// With at most one such filter, every filter is forced on and kept hidden.
func (sb *SearchBox) initFilters() {
	cfg := sb.env.config()
	enabled := 0

	for i := range sb.filters {
		f := &sb.filters[i]
		f.Enabled = cfg.HasCapability(f.Type.Capability())

		if f.Enabled {
			f.Checked = !sb.settings.HideSR(f.Type)
			enabled++
		}
	}

	sb.showFilters = enabled > 1
	if !sb.showFilters {
		for i := range sb.filters {
			sb.filters[i].Checked = true
		}
	}
}

// SetQuery replaces the query text without searching.
func (sb *SearchBox) SetQuery(q string) { sb.query = q }

// Query returns the query text.
func (sb *SearchBox) Query() string { return sb.query }

// Submit searches for the current query, unless the rule info popup is open.
func (sb *SearchBox) Submit() {
	if sb.blocked != nil && sb.blocked() {
		slog.Debug("search ignored while rule info is open", "query", sb.query)
		return
	}

	sb.env.bus.Emit(bus.Search{Query: sb.query})
}

// SetFilter shows or hides results of a type and remembers the choice.
func (sb *SearchBox) SetFilter(t core.SRType, show bool) bool {
	for i := range sb.filters {
		if sb.filters[i].Type != t {
			continue
		}

		sb.filters[i].Checked = show
		sb.settings.SetHideSR(t, !show)
		sb.updateCount()

		return true
	}

	return false
}

// Shown reports whether results of the given type pass the filters.
// Types without a filter are always shown.
func (sb *SearchBox) Shown(t core.SRType) bool {
	for _, f := range sb.filters {
		if f.Type == t {
			return f.Checked
		}
	}

	return true
}

// Filters returns the filter checkboxes.
func (sb *SearchBox) Filters() []SRFilter { return sb.filters }

// ShowFilters reports whether the filter checkboxes are offered to the user.
func (sb *SearchBox) ShowFilters() bool { return sb.showFilters }

// Count returns the "visible/total" counter and its tooltip; both are
// empty when no count is shown.
func (sb *SearchBox) Count() (text, info string) {
	if !sb.showCount {
		return "", ""
	}

	return sb.countText, sb.countInfo
}

func (sb *SearchBox) updateCount() {
	if !sb.showCount {
		return
	}

	visible, total := 0, 0

	for _, sr := range sb.results.Results() {
		total++

		if sb.Shown(sr.Type()) {
			visible++
		}
	}

	sb.countText, sb.countInfo = countLabels(visible, total)

	sb.env.bus.Emit(bus.SRFiltered{Visible: visible, Total: total})
}

func countLabels(visible, total int) (text, info string) {
	switch {
	case visible == 0 && total == 0:
		return "", ""
	case visible == 0 && total == 1:
		info = "Not showing the 1 search result"
	case visible == 1 && total == 1:
		info = "Showing the 1 search result"
	default:
		info = fmt.Sprintf("Showing %d of %d search results", visible, total)
	}

	return fmt.Sprintf("%d/%d", visible, total), info
}

// Close detaches the search box from the bus.
func (sb *SearchBox) Close() { sb.subs.close() }

// SearchResults runs searches and holds the last set of results.
type SearchResults struct {
	env       *env
	errMsg    string
	noResults string
	results   []core.SearchResult
	subs      subscriptions
	seq       int
	doneCount int
	inflight  bool
}

func newSearchResults(e *env) *SearchResults {
	sr := &SearchResults{env: e}

	sr.subs.add(bus.On(e.bus, sr.onSearch))
	sr.subs.add(bus.On(e.bus, func(ev bus.SRFiltered) {
		switch {
		case sr.errMsg != "":
			sr.noResults = ""
		case ev.Total == 0:
			sr.noResults = "Nothing was found."
		case ev.Visible == 0:
			sr.noResults = "All search results have been filtered."
		default:
			sr.noResults = ""
		}
	}))
	sr.subs.add(bus.On(e.bus, func(bus.SearchDone) { sr.doneCount++ }))

	return sr
}

func (sr *SearchResults) onSearch(ev bus.Search) {
	if sr.env.hideFootnotes != nil {
		sr.env.hideFootnotes()
	}

	sr.errMsg = ""
	sr.noResults = ""
	sr.seq++
	seq := sr.seq

	if tgt, ok := sr.env.state().Targets.First(ev.Query, ""); ok {
		sr.results = nil
		sr.inflight = false
		sr.env.bus.Emit(bus.ShowTarget{CDocID: tgt.CDocID, Ruleid: tgt.Ruleid})
		sr.env.bus.Emit(bus.SearchDone{ShowCount: false})

		return
	}

	sr.inflight = true

	fetch(sr.env, func(ctx context.Context) ([]core.SearchResult, error) {
		return sr.env.backend.Search(ctx, ev.Query)
	}, func(results []core.SearchResult, err error) {
		if seq != sr.seq {
			slog.Debug("dropping stale search response", "query", ev.Query)
			return
		}

		sr.inflight = false
		sr.complete(results, err)
	})
}

func (sr *SearchResults) complete(results []core.SearchResult, err error) {
	if err != nil {
		var searchErr *core.SearchError
		if errors.As(err, &searchErr) {
			sr.errMsg = searchErr.Error()
		} else {
			sr.errMsg = err.Error()
		}

		sr.results = nil
		sr.env.bus.Emit(bus.SearchDone{ShowCount: true})

		return
	}

	for _, r := range results {
		r.Hilite()
	}

	sr.results = results

	if len(results) > 0 {
		if idx, ok := results[0].(*core.IndexSR); ok {
			if tgt, ok := sr.env.state().Targets.PrimaryTarget(idx); ok {
				sr.env.bus.Emit(bus.ShowTarget{CDocID: tgt.CDocID, Ruleid: tgt.Ruleid})
			}
		}
	}

	sr.env.bus.Emit(bus.SearchDone{ShowCount: true})
}

// Results returns the current search results.
func (sr *SearchResults) Results() []core.SearchResult { return sr.results }

// Result returns the result at index i.
func (sr *SearchResults) Result(i int) (core.SearchResult, bool) {
	if i < 0 || i >= len(sr.results) {
		return nil, false
	}

	return sr.results[i], true
}

// Error returns the message of the last failed search.
func (sr *SearchResults) Error() string { return sr.errMsg }

// NoResults returns the message shown when nothing is listed.
func (sr *SearchResults) NoResults() string { return sr.noResults }

// Searching reports whether a search request is outstanding.
func (sr *SearchResults) Searching() bool { return sr.inflight }

// DoneCount returns how many searches have completed.
func (sr *SearchResults) DoneCount() int { return sr.doneCount }

// Close detaches the search results from the bus.
func (sr *SearchResults) Close() { sr.subs.close() }
