package webapp

import (
	"log/slog"
	"strings"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

const (
	navTabGroup    = "nav"
	navTabSearch   = "search"
	navTabChapters = "chapters"
	navTabASOP     = "asop"

	chaptersAccordion = "chapters"
	asopAccordion     = "asop"
)

// chapterRef identifies a chapter pane: the content doc and the chapter within it.
type chapterRef struct {
	cdocID  string
	chapter core.Chapter
}

// chapterPaneKey builds the key of a chapter pane.
func chapterPaneKey(cdocID, chapterID string) string {
	return cdocID + "/" + chapterID
}

// SplitChapterPaneKey returns the content doc and chapter ids of a chapter pane key.
func SplitChapterPaneKey(key string) (cdocID, chapterID string, ok bool) {
	return strings.Cut(key, "/")
}

// NavPane is the left-hand pane: search, chapters and ASOP tabs, plus the
// rule info popup.
type NavPane struct {
	env      *env
	tabs     *TabbedPages
	Box      *SearchBox
	Results  *SearchResults
	RuleInfo *RuleInfoPopup
	chapters *Accordion
	asop     *Accordion
	refs     map[string]chapterRef
	footer   string
	subs     subscriptions
}

func newNavPane(e *env, settings *Settings) *NavPane {
	n := &NavPane{env: e, refs: make(map[string]chapterRef)}

	n.tabs = NewTabbedPages(e.bus, navTabGroup)
	n.tabs.AddPage(navTabSearch, "Search")
	n.tabs.AddPage(navTabChapters, "Chapters")

	n.RuleInfo = newRuleInfoPopup(e)
	n.Results = newSearchResults(e)
	n.Box = newSearchBox(e, settings, n.Results, n.RuleInfo.Open)

	n.chapters = NewAccordion(e.bus, chaptersAccordion, AccordionHandlers{
		OnExpanded: n.onChapterExpanded,
		OnEntry:    n.onChapterEntry,
	})
	n.asop = NewAccordion(e.bus, asopAccordion, AccordionHandlers{
		OnExpanded: func(key string, userClick bool) {
			e.bus.Emit(bus.ASOPChapterExpanded{ChapterID: key, UserClick: userClick})
		},
		OnEntry: func(_ string, entry PaneEntry) {
			e.bus.Emit(bus.ShowASOPSection{SectionID: entry.Key})
		},
	})

	n.subs.add(bus.On(e.bus, func(bus.AppLoaded) { n.install() }))
	n.subs.add(bus.On(e.bus, func(ev bus.ShowASOPEntrySR) {
		chapterID, ok := core.ASOPChapterIDFromSectionID(ev.SectionID)
		if !ok {
			return
		}

		if _, ok := n.asop.Pane(chapterID); ok {
			e.bus.Emit(bus.ExpandPane{Accordion: asopAccordion, Key: chapterID})
		}
	}))

	return n
}

// install builds the chapter and ASOP panes once the application data is in.
func (n *NavPane) install() {
	state := n.env.state()

	for _, doc := range state.ContentDocs() {
		for _, ch := range doc.Chapters {
			key := chapterPaneKey(doc.CDocID, ch.ChapterID)
			n.refs[key] = chapterRef{cdocID: doc.CDocID, chapter: ch}

			pane := &Pane{
				Key:           key,
				Title:         ch.Title,
				IconURL:       state.Resources.URL(core.ResourceIcon, ch.ChapterID),
				BackgroundURL: state.Resources.URL(core.ResourceBackground, ch.ChapterID),
			}

			for _, s := range ch.Sections {
				pane.Entries = append(pane.Entries, PaneEntry{Key: s.Ruleid, Caption: s.Caption})
			}

			n.chapters.AddPane(pane)
		}
	}

	if state.HasASOP() {
		for _, ch := range state.ASOP.Chapters {
			pane := &Pane{Key: ch.ChapterID, Title: ch.Caption}
			for _, s := range ch.Sections {
				pane.Entries = append(pane.Entries, PaneEntry{Key: s.SectionID, Caption: s.Caption})
			}

			n.asop.AddPane(pane)
		}

		n.tabs.AddPage(navTabASOP, "ASOP")

		fetch(n.env, n.env.backend.ASOPFooter, func(resp string, err error) {
			if err != nil {
				slog.Warn("couldn't get the ASOP footer", "error", err)
				return
			}

			n.footer = resp
		})
	}

	n.tabs.Mount()
}

func (n *NavPane) onChapterExpanded(key string, _ bool) {
	ref, ok := n.refs[key]
	if !ok {
		return
	}

	page := ref.chapter.PageNo
	if page <= 0 {
		page = 1
	}

	n.env.bus.Emit(bus.ShowPage{CDocID: ref.cdocID, PageNo: page})
}

func (n *NavPane) onChapterEntry(key string, entry PaneEntry) {
	ref, ok := n.refs[key]
	if !ok {
		return
	}

	n.env.bus.Emit(bus.ShowTarget{CDocID: ref.cdocID, Ruleid: entry.Key})
}

// Tabs returns the nav tab group.
func (n *NavPane) Tabs() *TabbedPages { return n.tabs }

// Accordion returns the chapters or ASOP accordion by id.
func (n *NavPane) Accordion(id string) (*Accordion, bool) {
	switch id {
	case chaptersAccordion:
		return n.chapters, true
	case asopAccordion:
		return n.asop, true
	default:
		return nil, false
	}
}

// Chapters returns the chapters accordion.
func (n *NavPane) Chapters() *Accordion { return n.chapters }

// ASOP returns the ASOP accordion.
func (n *NavPane) ASOP() *Accordion { return n.asop }

// Footer returns the ASOP footer HTML.
func (n *NavPane) Footer() string { return n.footer }

// Close detaches the pane and its children from the bus.
func (n *NavPane) Close() {
	n.subs.close()
	n.tabs.Close()
	n.Box.Close()
	n.Results.Close()
	n.RuleInfo.Detach()
	n.chapters.Close()
	n.asop.Close()
}
