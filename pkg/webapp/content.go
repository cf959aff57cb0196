package webapp

import (
	"strconv"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

const contentTabGroup = "content"

// emptyDoc is the synthetic document added by the add-empty-doc option.
var emptyDoc = core.ContentDoc{CDocID: "empty", Title: "Empty document"}

// DocView is a content doc as shown in its tab of the content pane.
type DocView struct {
	Doc    core.ContentDoc
	Target string
	PageNo int
}

// URL returns the viewer URL of the document, positioned at the current
// target or page. It is empty for a document without content.
func (d *DocView) URL() string {
	if d.Doc.URL == "" {
		return ""
	}

	switch {
	case d.Target != "":
		return d.Doc.URL + "#nameddest=" + d.Target
	case d.PageNo > 0:
		return d.Doc.URL + "#page=" + strconv.Itoa(d.PageNo)
	default:
		return d.Doc.URL
	}
}

// ContentPane has one tab per content doc.
type ContentPane struct {
	tabs      *TabbedPages
	docs      []*DocView
	subs      subscriptions
	noContent bool
}

func newContentPane(e *env, noContent bool) *ContentPane {
	cp := &ContentPane{tabs: NewTabbedPages(e.bus, contentTabGroup), noContent: noContent}

	cp.subs.add(bus.On(e.bus, func(ev bus.ShowTarget) {
		d, ok := cp.show(ev.CDocID)
		if !ok {
			return
		}

		d.Target = ev.Ruleid
		d.PageNo = 0
	}))
	cp.subs.add(bus.On(e.bus, func(ev bus.ShowPage) {
		d, ok := cp.show(ev.CDocID)
		if !ok {
			return
		}

		d.Target = ""
		d.PageNo = ev.PageNo
	}))

	return cp
}

// install creates a tab for every content doc. The tab id is the cdoc id.
func (cp *ContentPane) install(docs []core.ContentDoc) {
	for _, d := range docs {
		cp.docs = append(cp.docs, &DocView{Doc: d})
		cp.tabs.AddPage(d.CDocID, d.Title)
	}

	cp.tabs.Mount()
}

func (cp *ContentPane) show(cdocID string) (*DocView, bool) {
	d, ok := cp.Doc(cdocID)
	if !ok {
		return nil, false
	}

	cp.tabs.Activate(cdocID)

	return d, true
}

// Doc returns the view of a content doc.
func (cp *ContentPane) Doc(cdocID string) (*DocView, bool) {
	for _, d := range cp.docs {
		if d.Doc.CDocID == cdocID {
			return d, true
		}
	}

	return nil, false
}

// Docs returns the document views in tab order.
func (cp *ContentPane) Docs() []*DocView { return cp.docs }

// Tabs returns the tab group.
func (cp *ContentPane) Tabs() *TabbedPages { return cp.tabs }

// NoContent reports whether the document viewer is replaced by a placeholder.
func (cp *ContentPane) NoContent() bool { return cp.noContent }

// Close detaches the pane from the bus.
func (cp *ContentPane) Close() {
	cp.subs.close()
	cp.tabs.Close()
}
