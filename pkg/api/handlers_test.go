package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestAppPage_CreatesSession(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)

	cookie := open(t, api.newMux(), "/")

	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, api.sessions.len())

	views.AssertCalled(t, "RenderApp", mock.Anything, mock.Anything, false)

	snap := views.lastSnapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.Loaded)
	require.Len(t, snap.Content.Docs, 1)
	assert.Equal(t, "asl-rb", snap.Content.Docs[0].CDocID)
	assert.Equal(t, 1, snap.Content.Docs[0].PageNo)
}

func TestAppPage_ReusesSession(t *testing.T) {
	backend := newBackend(t)
	api := newTestAPI(t, backend, newViews())
	h := api.newMux()

	cookie := open(t, h, "/")

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, api.sessions.len())
	backend.AssertNumberOfCalls(t, "AppConfig", 1)
}

func TestAppPage_OptionsStartNewSession(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)
	h := api.newMux()

	first := open(t, h, "/")

	req := httptest.NewRequest(http.MethodGet, "/?no-content=1", http.NoBody)
	req.AddCookie(first)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, first.Value, rec.Result().Cookies()[0].Value)

	snap := views.lastSnapshot()
	assert.True(t, snap.Options.NoContent)
	assert.True(t, snap.Content.NoContent)
}

func TestAppPage_HTMXPartial(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("HX-Request", "true")

	rec := httptest.NewRecorder()
	api.newMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	views.AssertCalled(t, "RenderApp", mock.Anything, mock.Anything, true)
}

func TestAppPage_InitialQuery(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)

	open(t, api.newMux(), "/?q=A24.1")

	snap := views.lastSnapshot()
	assert.Equal(t, "A24.1", snap.Nav.Search.Query)
	assert.Equal(t, "A24.1", snap.Content.Docs[0].Target)
}

func TestNotFound(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)

	rec := httptest.NewRecorder()
	api.newMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	views.AssertCalled(t, "RenderNotFound", mock.Anything)
}

func TestAction_SearchRuleid(t *testing.T) {
	backend := newBackend(t)
	views := newViews()
	api := newTestAPI(t, backend, views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/search", url.Values{"q": {"A1.1"}})

	require.Equal(t, http.StatusOK, rec.Code)
	backend.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	backend.AssertCalled(t, "RuleInfo", mock.Anything, "A1.1")

	snap := views.lastSnapshot()
	assert.Equal(t, "A1.1", snap.Content.Docs[0].Target)
	views.AssertCalled(t, "RenderApp", mock.Anything, mock.Anything, true)
}

func TestAction_SearchTrimsQuery(t *testing.T) {
	backend := newBackend(t)
	views := newViews()
	api := newTestAPI(t, backend, views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/search", url.Values{"q": {"  A1.1 \t"}})

	require.Equal(t, http.StatusOK, rec.Code)
	backend.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)

	snap := views.lastSnapshot()
	assert.Equal(t, "A1.1", snap.Nav.Search.Query)
	assert.Equal(t, "A1.1", snap.Content.Docs[0].Target)
}

func TestAction_FreeTextSearch(t *testing.T) {
	backend := newBackend(t)
	backend.On("Search", mock.Anything, "smoke").Return([]core.SearchResult{
		&core.IndexSR{Title: ptr("Smoke"), Ruleids: []string{"A24.1"}},
		&core.IndexSR{Title: ptr("Smoke Grenades")},
	}, nil).Once()

	views := newViews()
	api := newTestAPI(t, backend, views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/search", url.Values{"q": {"smoke"}})

	require.Equal(t, http.StatusOK, rec.Code)

	snap := views.lastSnapshot()
	assert.Equal(t, "2/2", snap.Nav.Search.Count)
	require.Len(t, snap.Nav.Search.Results, 2)
	require.NotNil(t, snap.Nav.Search.Results[0].Index)
	assert.Equal(t, "A24.1", snap.Nav.Search.Results[0].Index.Ruleids[0].Ruleid)
	assert.True(t, snap.Nav.Search.Results[0].Index.Ruleids[0].Resolved)
}

func TestAction_SearchError(t *testing.T) {
	backend := newBackend(t)
	backend.On("Search", mock.Anything, "oops").Return(nil, errors.New("connection refused")).Once()

	views := newViews()
	api := newTestAPI(t, backend, views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/search", url.Values{"q": {"oops"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, views.lastSnapshot().Nav.Search.Error, "connection refused")
}

func TestAction_UnknownTarget(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/target", url.Values{"ruleid": {"X99"}})

	require.Equal(t, http.StatusOK, rec.Code)

	snap := views.lastSnapshot()
	require.NotEmpty(t, snap.Toasts)
	assert.Contains(t, snap.Toasts[len(snap.Toasts)-1].HTML, "Unknown target: X99")
}

func TestAction_Target(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/target", url.Values{"ruleid": {"A24.1"}, "cdoc": {"asl-rb"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A24.1", views.lastSnapshot().Content.Docs[0].Target)
}

func TestAction_TabAndEscape(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)
	h := api.newMux()

	cookie := open(t, h, "/")

	rec := post(h, cookie, "/tab", url.Values{"group": {"nav"}, "tab": {"chapters"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "chapters", views.lastSnapshot().Nav.Tabs.Active)

	rec = post(h, cookie, "/escape", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "search", views.lastSnapshot().Nav.Tabs.Active)
}

func TestAction_ChapterPane(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)
	h := api.newMux()

	cookie := open(t, h, "/")

	snap := views.lastSnapshot()
	require.NotEmpty(t, snap.Nav.Chapters.Panes)

	pane := snap.Nav.Chapters.Panes[0]

	rec := post(h, cookie, "/pane", url.Values{"accordion": {snap.Nav.Chapters.ID}, "key": {pane.Key}})
	require.Equal(t, http.StatusOK, rec.Code)

	snap = views.lastSnapshot()
	assert.True(t, snap.Nav.Chapters.Panes[0].Expanded)
	assert.Equal(t, 3, snap.Content.Docs[0].PageNo)

	rec = post(h, cookie, "/entry", url.Values{"accordion": {snap.Nav.Chapters.ID}, "pane": {pane.Key}, "entry": {"A1.1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A1.1", views.lastSnapshot().Content.Docs[0].Target)
}

func TestAction_BadRequest(t *testing.T) {
	tests := []struct {
		form  url.Values
		name  string
		route string
	}{
		{name: "missing ruleid", route: "/target", form: url.Values{"cdoc": {"asl-rb"}}},
		{name: "invalid page", route: "/page", form: url.Values{"cdoc": {"asl-rb"}, "page": {"abc"}}},
		{name: "unknown accordion", route: "/pane", form: url.Values{"accordion": {"nope"}, "key": {"A"}}},
		{name: "unknown entry", route: "/entry", form: url.Values{"accordion": {"chapters"}, "pane": {"x"}, "entry": {"y"}}},
		{name: "unknown collapser", route: "/collapser", form: url.Values{"id": {"nope"}}},
		{name: "invalid show", route: "/sr-filter", form: url.Values{"type": {"qa"}, "show": {"maybe"}}},
		{name: "unknown filter", route: "/sr-filter", form: url.Values{"type": {"bogus"}, "show": {"true"}}},
		{name: "invalid index", route: "/asop-sr", form: url.Values{"index": {"x"}}},
		{name: "no such result", route: "/asop-sr", form: url.Values{"index": {"7"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, newBackend(t), newViews())
			h := api.newMux()

			cookie := open(t, h, "/")

			rec := post(h, cookie, tt.route, tt.form)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAction_NoSession(t *testing.T) {
	api := newTestAPI(t, newBackend(t), newViews())
	h := api.newMux()

	rec := post(h, nil, "/escape", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("HX-Redirect"))

	req := httptest.NewRequest(http.MethodPost, "/escape", http.NoBody)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "gone"})

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAction_PlainFormRedirects(t *testing.T) {
	views := newViews()
	api := newTestAPI(t, newBackend(t), views)
	h := api.newMux()

	cookie := open(t, h, "/")
	rendered := len(views.snapshots())

	req := httptest.NewRequest(http.MethodPost, "/tab", http.NoBody)
	req.Form = url.Values{"group": {"nav"}, "tab": {"chapters"}}
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, views.snapshots(), rendered)

	req = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.AddCookie(cookie)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "chapters", views.lastSnapshot().Nav.Tabs.Active)
}
