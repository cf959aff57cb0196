package webapp

import (
	"github.com/ksysoev/rulebook/pkg/core"
)

// Snapshot is a read-only copy of everything a front end needs to draw the
// application. Take it on the loop; it can be used anywhere afterwards.
// Stored notifications are keyed by level name.
type Snapshot struct {
	Options        Options
	Stored         map[string][]string
	Footnotes      *FootnotesView
	ASOP           *ASOPView
	RuleInfoRuleid string
	Nav            NavView
	Content        ContentView
	Toasts         []Notification
	RuleInfo       []RuleInfoView
	Loaded         bool
}

// TabsView is a tab group.
type TabsView struct {
	ID     string
	Active string
	Tabs   []TabView
}

// TabView is one tab of a group.
type TabView struct {
	ID      string
	Caption string
	Active  bool
}

// AccordionView is an accordion with its panes.
type AccordionView struct {
	ID    string
	Panes []PaneView
}

// PaneView is one pane of an accordion.
type PaneView struct {
	Key           string
	Title         string
	IconURL       string
	BackgroundURL string
	Entries       []PaneEntry
	Expanded      bool
}

// NavView is the nav pane.
type NavView struct {
	Tabs     TabsView
	Chapters AccordionView
	ASOP     AccordionView
	Footer   string
	Search   SearchView
}

// SearchView is the search box and its results.
type SearchView struct {
	Query       string
	Count       string
	CountInfo   string
	Error       string
	NoResults   string
	Filters     []SRFilter
	Results     []SRView
	SeqNo       int
	ShowFilters bool
	Searching   bool
}

// SRView is a search result. Exactly one of the variant fields is set;
// Unknown holds the type of a result that could not be interpreted.
type SRView struct {
	Index    *IndexSRView
	QA       *QAView
	Anno     *AnnotationView
	ASOP     *core.ASOPEntrySR
	Type     core.SRType
	Unknown  string
	Position int
	Visible  bool
}

// IndexSRView is an index search result with its ruleids resolved.
type IndexSRView struct {
	SR       *core.IndexSR
	Ruleids  []RuleLink
	Rulerefs []RulerefView
}

// RulerefView is a cross-reference of an index entry.
type RulerefView struct {
	Caption string
	Ruleids []RuleLink
}

// QAView is a Q+A entry.
type QAView struct {
	Caption string
	Content []QAContentView
}

// QAContentView is one question (or informational block) with its answers.
type QAContentView struct {
	Question    string
	ImageURL    string
	SeeOther    string
	Answers     []core.QAAnswer
	HasQuestion bool
}

// AnnotationView is an erratum or user annotation.
type AnnotationView struct {
	Kind    core.AnnotationKind
	Ruleid  RuleLink
	Content string
	Source  string
}

// RuleInfoView is one entry of the rule info popup.
type RuleInfoView struct {
	QA        *QAView
	Anno      *AnnotationView
	Collapser CollapserView
	Unknown   string
}

// CollapserView is the state of a collapser and its region.
type CollapserView struct {
	ID        string
	Height    int
	Shown     bool
	Collapsed bool
}

// FootnotesView is the footnote popup.
type FootnotesView struct {
	CDocID    string
	Ruleid    string
	Footnotes []FootnoteView
}

// FootnoteView is a single footnote with its captions resolved.
type FootnoteView struct {
	ID       string
	Content  string
	Captions []RuleLink
}

// ContentView is the content pane.
type ContentView struct {
	Tabs      TabsView
	Docs      []DocSnapshot
	NoContent bool
}

// DocSnapshot is a content doc tab.
type DocSnapshot struct {
	CDocID  string
	Title   string
	URL     string
	Target  string
	PageNo  int
	Visible bool
}

// ASOPView is the ASOP viewer.
type ASOPView struct {
	Title     string
	Preamble  string
	ChapterID string
	Sections  []string
	Collapser CollapserView
	Single    bool
}

// Snapshot captures the current display state.
func (a *App) Snapshot() *Snapshot {
	state := a.current
	cfg := state.Config

	s := &Snapshot{
		Options: a.opts,
		Loaded:  a.loaded,
		Toasts:  a.Notes.Toasts(),
		Stored: map[string][]string{
			string(LevelInfo):    a.Notes.Stored(LevelInfo),
			string(LevelWarning): a.Notes.Stored(LevelWarning),
			string(LevelError):   a.Notes.Stored(LevelError),
		},
		Nav: NavView{
			Tabs:     tabsView(a.Nav.Tabs()),
			Chapters: accordionView(a.Nav.Chapters()),
			ASOP:     accordionView(a.Nav.ASOP()),
			Footer:   a.Nav.Footer(),
			Search:   a.searchView(state),
		},
		Content: ContentView{
			Tabs:      tabsView(a.Content.Tabs()),
			NoContent: a.Content.NoContent(),
		},
	}

	for _, d := range a.Content.Docs() {
		s.Content.Docs = append(s.Content.Docs, DocSnapshot{
			CDocID:  d.Doc.CDocID,
			Title:   d.Doc.Title,
			URL:     d.URL(),
			Target:  d.Target,
			PageNo:  d.PageNo,
			Visible: a.Content.Tabs().Visible(d.Doc.CDocID),
		})
	}

	if a.Nav.RuleInfo.Open() {
		s.RuleInfoRuleid = a.Nav.RuleInfo.Ruleid()
	}

	for _, e := range a.Nav.RuleInfo.Entries() {
		v := RuleInfoView{Collapser: collapserView(e.Collapser, cfg)}

		switch ri := e.Info.(type) {
		case *core.QAEntry:
			v.QA = a.qaView(ri)
		case *core.Annotation:
			v.Anno = annotationView(state, ri)
		case *core.UnknownRuleInfo:
			v.Unknown = ri.RIType
		}

		s.RuleInfo = append(s.RuleInfo, v)
	}

	if a.Footnotes.Open() {
		cdocID, ruleid := a.Footnotes.Target()
		fv := &FootnotesView{CDocID: cdocID, Ruleid: ruleid}

		doc, _ := state.ContentDoc(cdocID)

		for _, fn := range a.Footnotes.Footnotes() {
			v := FootnoteView{ID: fn.FootnoteID, Content: fn.Content}

			for _, c := range fn.Captions {
				csetID := ""
				if doc != nil {
					csetID = doc.ParentCSetID
				}

				link := linkRuleid(state, c.Ruleid, csetID)
				link.Caption = c.Caption
				v.Captions = append(v.Captions, link)
			}

			fv.Footnotes = append(fv.Footnotes, v)
		}

		s.Footnotes = fv
	}

	if a.ASOP.Active() || a.Nav.Tabs().Active() == navTabASOP {
		preamble, c := a.ASOP.Preamble()
		s.ASOP = &ASOPView{
			Title:     a.ASOP.Title(),
			Preamble:  preamble,
			ChapterID: a.ASOP.ChapterID(),
			Sections:  append([]string(nil), a.ASOP.Sections()...),
			Collapser: collapserView(c, cfg),
			Single:    a.ASOP.Single(),
		}
	}

	return s
}

func (a *App) searchView(state *core.AppState) SearchView {
	box, results := a.Nav.Box, a.Nav.Results
	count, info := box.Count()

	v := SearchView{
		Query:       box.Query(),
		Count:       count,
		CountInfo:   info,
		Error:       results.Error(),
		NoResults:   results.NoResults(),
		Filters:     append([]SRFilter(nil), box.Filters()...),
		ShowFilters: box.ShowFilters(),
		SeqNo:       results.DoneCount(),
		Searching:   results.Searching(),
	}

	for i, r := range results.Results() {
		srv := SRView{Type: r.Type(), Position: i, Visible: box.Shown(r.Type())}

		switch sr := r.(type) {
		case *core.IndexSR:
			iv := &IndexSRView{SR: sr, Ruleids: linkRuleids(state, sr.Ruleids, sr.CSetID)}
			for _, ref := range sr.Rulerefs {
				iv.Rulerefs = append(iv.Rulerefs, RulerefView{
					Caption: ref.Caption,
					Ruleids: linkRuleids(state, ref.Ruleids, sr.CSetID),
				})
			}

			srv.Index = iv
		case *core.QASR:
			srv.QA = a.qaView(&sr.QAEntry)
		case *core.AnnotationSR:
			srv.Anno = annotationView(state, &sr.Annotation)
		case *core.ASOPEntrySR:
			srv.ASOP = sr
		case *core.UnknownSR:
			srv.Unknown = string(sr.SRType)
		}

		v.Results = append(v.Results, srv)
	}

	return v
}

func (a *App) qaView(qa *core.QAEntry) *QAView {
	v := &QAView{Caption: qa.Caption}

	for _, c := range qa.Content {
		cv := QAContentView{SeeOther: c.SeeOther, Answers: c.Answers}

		if c.Question != nil {
			cv.Question = *c.Question
			cv.HasQuestion = true
		}

		if c.Image != "" {
			cv.ImageURL = a.env.backend.QAImageURL(c.Image)
		}

		v.Content = append(v.Content, cv)
	}

	return v
}

func annotationView(state *core.AppState, anno *core.Annotation) *AnnotationView {
	return &AnnotationView{
		Kind:    anno.Kind,
		Ruleid:  linkRuleid(state, anno.Ruleid, ""),
		Content: anno.Content,
		Source:  anno.Source,
	}
}

func tabsView(t *TabbedPages) TabsView {
	v := TabsView{ID: t.ID(), Active: t.Active()}

	for _, tab := range t.Tabs() {
		v.Tabs = append(v.Tabs, TabView{ID: tab.ID, Caption: tab.Caption, Active: tab.ID == t.Active()})
	}

	return v
}

func accordionView(a *Accordion) AccordionView {
	v := AccordionView{ID: a.ID()}

	for _, p := range a.Panes() {
		v.Panes = append(v.Panes, PaneView{
			Key:           p.Key,
			Title:         p.Title,
			IconURL:       p.IconURL,
			BackgroundURL: p.BackgroundURL,
			Entries:       p.Entries,
			Expanded:      p.Expanded(),
		})
	}

	return v
}

func collapserView(c *Collapser, cfg *core.AppConfig) CollapserView {
	return CollapserView{
		ID:        c.ID(),
		Height:    c.Height(cfg),
		Shown:     c.Shown(),
		Collapsed: c.Collapsed(),
	}
}
