package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ksysoev/rulebook/pkg/webapp"
)

const (
	navGroup    = "nav"
	tabSearch   = "search"
	tabChapters = "chapters"
	tabASOP     = "asop"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8FAFC")).
			Background(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	ruleidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	unknownRuleidStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#64748B")).
				Strikethrough(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#64748B")).
			Padding(0, 1)
)

// item is one selectable line of the nav pane.
type item struct {
	act  func(*webapp.App) error
	line string
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ASL Rulebook"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs(m.snap.Nav.Tabs))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderSearchStatus())
	b.WriteString("\n\n")
	b.WriteString(m.body.View())
	b.WriteString("\n")
	b.WriteString(m.renderContentStatus())
	b.WriteString("\n")
	b.WriteString(m.renderNotifications())

	return b.String()
}

func (m *Model) refreshBody() {
	m.body.SetContent(m.renderBody())
}

func (m Model) renderTabs(tabs webapp.TabsView) string {
	parts := make([]string, 0, len(tabs.Tabs))

	for _, t := range tabs.Tabs {
		if t.Active {
			parts = append(parts, activeTabStyle.Render(t.Caption))
		} else {
			parts = append(parts, tabStyle.Render(t.Caption))
		}
	}

	return strings.Join(parts, " ")
}

func (m Model) renderSearchStatus() string {
	s := m.snap.Nav.Search

	var parts []string

	if !m.snap.Loaded {
		parts = append(parts, "Loading...")
	}

	if s.Searching {
		parts = append(parts, "Searching...")
	}

	if s.Count != "" {
		parts = append(parts, s.Count+" results")
	}

	if s.ShowFilters {
		for _, f := range s.Filters {
			if !f.Enabled {
				continue
			}

			mark := "[ ]"
			if f.Checked {
				mark = "[x]"
			}

			parts = append(parts, fmt.Sprintf("%s %s", mark, f.Label))
		}
	}

	return statusStyle.Render(strings.Join(parts, "  "))
}

func (m Model) renderBody() string {
	var b strings.Builder

	if m.snap.Nav.Tabs.Active == tabSearch {
		if s := m.snap.Nav.Search; s.Error != "" {
			b.WriteString(errorStyle.Render(m.text.render(s.Error)))
			b.WriteString("\n")
		} else if s.NoResults != "" {
			b.WriteString(statusStyle.Render(s.NoResults))
			b.WriteString("\n")
		}
	}

	for i, it := range m.items() {
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}

		b.WriteString(it.line)
		b.WriteString("\n")
	}

	if m.snap.ASOP != nil && m.snap.Nav.Tabs.Active == tabASOP {
		b.WriteString("\n")
		b.WriteString(m.renderASOP(m.snap.ASOP))
	}

	if len(m.snap.RuleInfo) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderRuleInfo())
	}

	if m.snap.Footnotes != nil {
		b.WriteString("\n")
		b.WriteString(m.renderFootnotes(m.snap.Footnotes))
	}

	return b.String()
}

// items returns the selectable lines of the active nav tab.
func (m Model) items() []item {
	switch m.snap.Nav.Tabs.Active {
	case tabSearch:
		return m.resultItems()
	case tabChapters:
		return accordionItems(m.snap.Nav.Chapters, m.text)
	case tabASOP:
		return accordionItems(m.snap.Nav.ASOP, m.text)
	default:
		return nil
	}
}

func (m Model) resultItems() []item {
	var items []item

	for _, r := range m.snap.Nav.Search.Results {
		if !r.Visible {
			continue
		}

		switch {
		case r.Index != nil:
			items = append(items, m.indexItem(r.Index))
		case r.QA != nil:
			items = append(items, item{line: m.qaLine(r.QA)})
		case r.Anno != nil:
			it := item{line: m.annoLine(r.Anno)}
			if r.Anno.Ruleid.Resolved {
				it.act = gotoLink(r.Anno.Ruleid)
			}

			items = append(items, it)
		case r.ASOP != nil:
			pos := r.Position
			items = append(items, item{
				line: fmt.Sprintf("[ASOP] %s %s", r.ASOP.Caption, m.text.render(r.ASOP.Content)),
				act:  func(app *webapp.App) error { return app.ClickASOPResult(pos) },
			})
		default:
			items = append(items, item{line: "???:" + r.Unknown})
		}
	}

	return items
}

func (m Model) indexItem(v *webapp.IndexSRView) item {
	var parts []string

	if v.SR.Title != nil {
		parts = append(parts, m.text.render(*v.SR.Title))
	}

	if v.SR.Subtitle != nil {
		parts = append(parts, "("+m.text.render(*v.SR.Subtitle)+")")
	}

	for _, l := range v.Ruleids {
		parts = append(parts, renderLink(l))
	}

	if v.SR.Content != nil {
		parts = append(parts, "- "+m.text.render(*v.SR.Content))
	}

	it := item{line: strings.Join(parts, " ")}

	for _, l := range v.Ruleids {
		if l.Resolved {
			it.act = gotoLink(l)
			break
		}
	}

	return it
}

func (m Model) qaLine(qa *webapp.QAView) string {
	line := "[Q+A] " + qa.Caption

	for _, c := range qa.Content {
		if c.HasQuestion {
			line += " Q: " + m.text.render(c.Question)
		}

		for _, a := range c.Answers {
			line += " A: " + m.text.render(a.HTML)
		}
	}

	return line
}

func (m Model) annoLine(a *webapp.AnnotationView) string {
	label := "[Note]"
	if a.Kind == "errata" {
		label = "[Errata]"
	}

	return fmt.Sprintf("%s %s %s", label, renderLink(a.Ruleid), m.text.render(a.Content))
}

func (m Model) renderRuleInfo() string {
	lines := []string{titleStyle.Render("Rule info: " + m.snap.RuleInfoRuleid)}

	for _, ri := range m.snap.RuleInfo {
		var line string

		switch {
		case ri.QA != nil:
			line = m.qaLine(ri.QA)
		case ri.Anno != nil:
			line = m.annoLine(ri.Anno)
		default:
			line = "???:" + ri.Unknown
		}

		if ri.Collapser.Shown && ri.Collapser.Collapsed {
			line = truncate(line, collapsedWidth) + statusStyle.Render(" [:fold "+ri.Collapser.ID+"]")
		}

		lines = append(lines, line)
	}

	return popupStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderFootnotes(fv *webapp.FootnotesView) string {
	lines := []string{titleStyle.Render("Footnotes")}

	for _, fn := range fv.Footnotes {
		captions := make([]string, 0, len(fn.Captions))
		for _, c := range fn.Captions {
			captions = append(captions, renderLink(c))
		}

		lines = append(lines, strings.TrimSpace(strings.Join(captions, " ")+" "+m.text.render(fn.Content)))
	}

	return popupStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderASOP(v *webapp.ASOPView) string {
	lines := []string{titleStyle.Render(m.text.render(v.Title))}

	if v.Preamble != "" {
		preamble := m.text.render(v.Preamble)
		if v.Collapser.Shown && v.Collapser.Collapsed {
			preamble = truncate(preamble, collapsedWidth) + statusStyle.Render(" [:fold "+v.Collapser.ID+"]")
		}

		lines = append(lines, preamble)
	}

	for _, s := range v.Sections {
		if s == "" {
			lines = append(lines, statusStyle.Render("Loading..."))
			continue
		}

		lines = append(lines, m.text.render(s))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderContentStatus() string {
	for _, d := range m.snap.Content.Docs {
		if !d.Visible {
			continue
		}

		where := ""

		switch {
		case d.Target != "":
			where = " #" + d.Target
		case d.PageNo > 0:
			where = fmt.Sprintf(" page %d", d.PageNo)
		}

		url := d.URL
		if url == "" {
			url = "No content."
		}

		return statusStyle.Render(fmt.Sprintf("%s%s  %s", d.Title, where, url))
	}

	return ""
}

func (m Model) renderNotifications() string {
	var lines []string

	for _, n := range m.snap.Toasts {
		text := m.text.render(n.HTML)

		switch n.Level {
		case webapp.LevelError:
			lines = append(lines, errorStyle.Render(text))
		case webapp.LevelWarning:
			lines = append(lines, warningStyle.Render(text))
		default:
			lines = append(lines, text)
		}
	}

	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}

	return strings.Join(lines, "\n")
}

func accordionItems(acc webapp.AccordionView, text *textRenderer) []item {
	var items []item

	for _, p := range acc.Panes {
		accID, paneKey := acc.ID, p.Key

		marker := "+"
		if p.Expanded {
			marker = "-"
		}

		items = append(items, item{
			line: marker + " " + text.render(p.Title),
			act:  func(app *webapp.App) error { return app.ClickPane(accID, paneKey) },
		})

		if !p.Expanded {
			continue
		}

		for _, e := range p.Entries {
			entryKey := e.Key
			it := item{line: "    " + e.Caption}

			if entryKey != "" {
				it.act = func(app *webapp.App) error { return app.ClickEntry(accID, paneKey, entryKey) }
			}

			items = append(items, it)
		}
	}

	return items
}

func renderLink(l webapp.RuleLink) string {
	if l.Resolved {
		return ruleidStyle.Render(l.Caption)
	}

	return unknownRuleidStyle.Render(l.Caption)
}

func gotoLink(l webapp.RuleLink) func(*webapp.App) error {
	return func(app *webapp.App) error {
		return app.GoTo(l.Target.CDocID, l.Target.Ruleid, l.Target.CSetID)
	}
}
