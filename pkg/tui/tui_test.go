package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/ksysoev/rulebook/pkg/webapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContentDocs = `{
	"asl-rb": {
		"title": "ASL Rulebook",
		"url": "/content/asl-rb.pdf",
		"targets": {"A1.1": "Scale", "A24.1": "Smoke"},
		"chapters": [
			{"chapter_id": "A", "title": "Infantry", "page_no": 3,
			 "sections": [{"caption": "Scale", "ruleid": "A1.1"}, {"caption": "Smoke", "ruleid": "A24.1"}]}
		]
	}
}`

type stubBackend struct {
	search func(query string) ([]core.SearchResult, error)
}

func (stubBackend) AppConfig(context.Context) (*core.AppConfig, error) {
	return &core.AppConfig{Capabilities: map[string]bool{"content-sets": true, "qa": true}}, nil
}

func (stubBackend) ContentDocs(context.Context) ([]core.ContentDoc, error) {
	return core.DecodeContentDocs([]byte(testContentDocs))
}

func (stubBackend) Footnotes(context.Context) (core.FootnoteIndex, error) {
	return core.FootnoteIndex{
		"asl-rb": {"A24.1": {{FootnoteID: "fn7", Content: "Smoke dispersal is <i>optional</i>."}}},
	}, nil
}

func (stubBackend) ASOP(context.Context) (*core.ASOP, error) { return &core.ASOP{}, nil }

func (stubBackend) ASOPIntro(context.Context) (string, error) { return "", nil }

func (stubBackend) ASOPFooter(context.Context) (string, error) { return "", nil }

func (stubBackend) ASOPSection(context.Context, string) (string, error) { return "", nil }

func (stubBackend) RuleInfo(_ context.Context, ruleid string) ([]core.RuleInfo, error) {
	if ruleid != "A24.1" {
		return nil, nil
	}

	return []core.RuleInfo{&core.Annotation{Kind: core.AnnotationErrata, Ruleid: "A24.1", Content: "Drift is +1."}}, nil
}

func (b stubBackend) Search(_ context.Context, query string) ([]core.SearchResult, error) {
	if b.search == nil {
		return nil, nil
	}

	return b.search(query)
}

func (stubBackend) StartupMsgs(context.Context) (*core.StartupMsgs, error) {
	return &core.StartupMsgs{}, nil
}

func (stubBackend) QAImageURL(fname string) string { return "/qa/image/" + fname }

func ptr(s string) *string { return &s }

// newModel returns a started model of the given size.
func newModel(t *testing.T, backend webapp.Backend) Model {
	t.Helper()

	app := webapp.New(t.Context(), backend, bus.NewLoop(), webapp.Options{})
	t.Cleanup(app.Close)

	m := New(t.Context(), app)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	return run(t, m, m.drv.do(func(app *webapp.App) error {
		app.Start()
		return nil
	}))
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	require.NotNil(t, cmd)

	next, _ := m.Update(cmd())

	return next.(Model)
}

// enter types line into the input and presses enter.
func enter(t *testing.T, m Model, line string) Model {
	t.Helper()

	m.input.SetValue(line)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if cmd == nil {
		return m
	}

	return run(t, m, cmd)
}

func key(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()

	next, cmd := m.Update(tea.KeyMsg{Type: k})
	m = next.(Model)

	if cmd == nil {
		return m
	}

	return run(t, m, cmd)
}

func TestModel_Start(t *testing.T) {
	m := newModel(t, stubBackend{})

	require.True(t, m.snap.Loaded)

	view := m.View()
	assert.Contains(t, view, "ASL Rulebook")
	assert.Contains(t, view, "Search")
	assert.Contains(t, view, "Chapters")
	assert.Contains(t, view, "page 1")
}

func TestModel_SearchRuleid(t *testing.T) {
	m := newModel(t, stubBackend{})

	m = enter(t, m, "A24.1")

	view := m.View()
	assert.Contains(t, view, "#A24.1")
	assert.Contains(t, view, "Rule info: A24.1")
	assert.Contains(t, view, "[Errata]")
	assert.Contains(t, view, "Drift is +1.")
	assert.Contains(t, view, "Smoke dispersal is optional.")
}

func TestModel_FreeTextSearch(t *testing.T) {
	backend := stubBackend{search: func(string) ([]core.SearchResult, error) {
		return []core.SearchResult{
			&core.IndexSR{Title: ptr("Smoke"), Ruleids: []string{"A24.1"}, Content: ptr("<b>Smoke</b> &amp; dust")},
			&core.IndexSR{Title: ptr("Scale"), Ruleids: []string{"A1.1"}},
			&core.QASR{QAEntry: core.QAEntry{Caption: "A24.1", Content: []core.QAContent{{Question: ptr("Drift?"), Answers: []core.QAAnswer{{HTML: "Yes."}}}}}},
		}, nil
	}}

	m := newModel(t, backend)

	m = enter(t, m, "smoke")

	view := m.View()
	assert.Contains(t, view, "3/3 results")
	assert.Contains(t, view, "Smoke & dust")
	assert.Contains(t, view, "[Q+A] A24.1 Q: Drift? A: Yes.")
	require.Len(t, m.items(), 3)

	m = key(t, m, tea.KeyDown)
	assert.Equal(t, 1, m.selected)

	m.input.Reset()
	m = key(t, m, tea.KeyEnter)

	assert.Contains(t, m.View(), "#A1.1")
}

func TestModel_Goto(t *testing.T) {
	m := newModel(t, stubBackend{})

	m = enter(t, m, ":goto A1.1")
	assert.Contains(t, m.View(), "#A1.1")

	m = enter(t, m, ":goto X99")
	assert.Contains(t, m.View(), "Unknown target: X99")
}

func TestModel_BadCommand(t *testing.T) {
	m := newModel(t, stubBackend{})

	m = enter(t, m, ":frobnicate")
	assert.Contains(t, m.status, "unknown command")

	m = enter(t, m, ":help")
	assert.Equal(t, helpText, m.status)
}

func TestModel_TabsAndChapters(t *testing.T) {
	m := newModel(t, stubBackend{})

	m = key(t, m, tea.KeyTab)
	require.Equal(t, tabChapters, m.snap.Nav.Tabs.Active)

	items := m.items()
	require.Len(t, items, 1)
	assert.Contains(t, items[0].line, "+ Infantry")

	m = key(t, m, tea.KeyEnter)

	items = m.items()
	require.Len(t, items, 3)
	assert.Contains(t, items[0].line, "- Infantry")
	assert.Contains(t, m.View(), "page 3")

	m = key(t, m, tea.KeyDown)
	m = key(t, m, tea.KeyDown)
	m = key(t, m, tea.KeyEnter)

	assert.Contains(t, m.View(), "#A24.1")

	m = key(t, m, tea.KeyEsc)
	m = key(t, m, tea.KeyEsc)
	m = key(t, m, tea.KeyEsc)

	assert.Equal(t, tabSearch, m.snap.Nav.Tabs.Active)
}

func TestModel_Quit(t *testing.T) {
	m := New(t.Context(), webapp.New(t.Context(), stubBackend{}, bus.NewLoop(), webapp.Options{}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
		wantNil bool
	}{
		{name: "search", line: "smoke"},
		{name: "goto", line: ":goto A1.1"},
		{name: "goto with cdoc", line: ":g A1.1 asl-rb"},
		{name: "goto without ruleid", line: ":goto", wantErr: true},
		{name: "page", line: ":page asl-rb 12"},
		{name: "bad page", line: ":page asl-rb twelve", wantErr: true},
		{name: "tab", line: ":tab chapters"},
		{name: "filter", line: ":filter qa off"},
		{name: "bad filter state", line: ":filter qa maybe", wantErr: true},
		{name: "fold", line: ":fold asop-preamble"},
		{name: "help", line: ":help", wantNil: true},
		{name: "empty command", line: ":", wantErr: true},
		{name: "unknown", line: ":nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act, err := parseCommand(tt.line)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, act == nil)
		})
	}
}

func TestTextRenderer(t *testing.T) {
	r := newTextRenderer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Smoke", want: "Smoke"},
		{name: "tags stripped", in: "<b>Smoke</b> <i>drifts</i>", want: "Smoke drifts"},
		{name: "entities", in: "Smoke &amp; dust", want: "Smoke & dust"},
		{name: "script dropped", in: "ok<script>alert(1)</script>", want: "ok"},
		{name: "hilite kept as text", in: "the <span class='hilite'>smoke</span> rule", want: "the smoke rule"},
		{name: "line breaks", in: "one<br>two", want: "one\ntwo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.render(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
