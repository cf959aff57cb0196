package webapp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

const testContentDocs = `{
	"asl-rb": {
		"title": "ASL Rulebook",
		"url": "/content/asl-rb.pdf",
		"parent_cset_id": "asl-rb",
		"targets": {
			"A1.1": "Scale",
			"A12.3": {"caption": "Concealment", "page_no": 42},
			"Z1": "Z in the rulebook"
		},
		"chapters": [
			{"chapter_id": "A", "title": "Infantry", "icon": "/icons/a.png", "background": null, "page_no": 3,
			 "sections": [{"caption": "Scale", "ruleid": "A1.1"}, {"caption": "Concealment", "ruleid": "A12.3"}]},
			{"chapter_id": "B", "title": "Terrain", "background": "/bg/b.png",
			 "sections": [{"caption": "Open Ground", "ruleid": "B1"}]}
		]
	},
	"kgs": {
		"title": "Kampfgruppe Scherer",
		"parent_cset_id": "kgs",
		"targets": {
			"KGS_CG3": "Campaign game",
			"Z1": "Z in KGS"
		}
	}
}`

// fakeBackend serves canned data. Calls arrive on fetch goroutines, so the
// call log is guarded.
type fakeBackend struct {
	config      *core.AppConfig
	configErr   error
	docs        string
	docsErr     error
	footnotes   core.FootnoteIndex
	footnoteErr error
	asop        *core.ASOP
	asopErr     error
	intro       string
	footer      string
	sections    map[string]string
	sectionErr  error
	ruleInfo    map[string][]core.RuleInfo
	ruleInfoErr error
	search      func(query string) ([]core.SearchResult, error)
	startup     *core.StartupMsgs
	startupErr  error

	mu            sync.Mutex
	searches      []string
	ruleInfoCalls []string
	sectionCalls  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		config: &core.AppConfig{Capabilities: map[string]bool{"content-sets": true, "qa": true, "errata": true}},
		docs:   testContentDocs,
	}
}

func (f *fakeBackend) AppConfig(context.Context) (*core.AppConfig, error) {
	return f.config, f.configErr
}

func (f *fakeBackend) ContentDocs(context.Context) ([]core.ContentDoc, error) {
	if f.docsErr != nil {
		return nil, f.docsErr
	}

	return core.DecodeContentDocs([]byte(f.docs))
}

func (f *fakeBackend) Footnotes(context.Context) (core.FootnoteIndex, error) {
	return f.footnotes, f.footnoteErr
}

func (f *fakeBackend) ASOP(context.Context) (*core.ASOP, error) {
	return f.asop, f.asopErr
}

func (f *fakeBackend) ASOPIntro(context.Context) (string, error) {
	return f.intro, nil
}

func (f *fakeBackend) ASOPFooter(context.Context) (string, error) {
	return f.footer, nil
}

func (f *fakeBackend) ASOPSection(_ context.Context, sectionID string) (string, error) {
	f.mu.Lock()
	f.sectionCalls = append(f.sectionCalls, sectionID)
	f.mu.Unlock()

	if f.sectionErr != nil {
		return "", f.sectionErr
	}

	return f.sections[sectionID], nil
}

func (f *fakeBackend) RuleInfo(_ context.Context, ruleid string) ([]core.RuleInfo, error) {
	f.mu.Lock()
	f.ruleInfoCalls = append(f.ruleInfoCalls, ruleid)
	f.mu.Unlock()

	if f.ruleInfoErr != nil {
		return nil, f.ruleInfoErr
	}

	return f.ruleInfo[ruleid], nil
}

func (f *fakeBackend) Search(_ context.Context, query string) ([]core.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, query)
	f.mu.Unlock()

	if f.search == nil {
		return nil, nil
	}

	return f.search(query)
}

func (f *fakeBackend) StartupMsgs(context.Context) (*core.StartupMsgs, error) {
	return f.startup, f.startupErr
}

func (f *fakeBackend) QAImageURL(fname string) string {
	return "/qa/image/" + fname
}

func (f *fakeBackend) searchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.searches...)
}

func (f *fakeBackend) sectionFetches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.sectionCalls...)
}

func (f *fakeBackend) ruleInfoFetches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.ruleInfoCalls...)
}

// searchJSON returns a search func answering every query with the decoded payload.
func searchJSON(payload string) func(string) ([]core.SearchResult, error) {
	return func(string) ([]core.SearchResult, error) {
		return core.DecodeSearchResults([]byte(payload))
	}
}

// startApp creates an application on fb and waits for startup to settle.
func startApp(t *testing.T, fb *fakeBackend, opts Options) *App {
	t.Helper()

	app := New(t.Context(), fb, bus.NewLoop(), opts)
	t.Cleanup(app.Close)

	require.NoError(t, app.Dispatch(t.Context(), func(a *App) { a.Start() }))
	require.True(t, app.Loaded())

	return app
}

// dispatch runs fn on the application's loop and waits for it to settle.
func dispatch(t *testing.T, app *App, fn func(a *App)) {
	t.Helper()

	require.NoError(t, app.Dispatch(t.Context(), fn))
}

// recordEvents collects every event of type E emitted on the application's bus.
func recordEvents[E bus.Event](t *testing.T, app *App) *[]E {
	t.Helper()

	var got []E

	unsub := bus.On(app.Bus(), func(ev E) { got = append(got, ev) })
	t.Cleanup(unsub)

	return &got
}

// newTestEnv builds the shared environment of a single component, backed by state.
func newTestEnv(t *testing.T, state *core.AppState) *env {
	t.Helper()

	if state == nil {
		state = core.NewAppState()
	}

	return &env{
		ctx:        t.Context(),
		bus:        bus.New(),
		loop:       bus.NewLoop(),
		backend:    newFakeBackend(),
		state:      func() *core.AppState { return state },
		notes:      NewNotifier(false),
		collapse:   NewCollapseStates(),
		collapsers: make(map[string]*Collapser),
	}
}
