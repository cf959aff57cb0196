package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ksysoev/rulebook/pkg/api/middleware"
	"github.com/ksysoev/rulebook/pkg/core"
	"github.com/ksysoev/rulebook/pkg/webapp"
)

const sessionCookie = "rulebook_session"

var errBadRequest = errors.New("bad request")

// actionFunc applies a request to an application. It runs on the application's loop.
type actionFunc func(r *http.Request, app *webapp.App) error

// isHTMXRequest checks if the request was made by HTMX.
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// actions maps each action route to what it does to the application.
func (a *API) actions() map[string]actionFunc {
	return map[string]actionFunc{
		"/search": func(r *http.Request, app *webapp.App) error {
			app.Search(strings.TrimSpace(r.FormValue("q")))
			return nil
		},
		"/target": func(r *http.Request, app *webapp.App) error {
			ruleid := r.FormValue("ruleid")
			if ruleid == "" {
				return fmt.Errorf("missing ruleid: %w", errBadRequest)
			}

			return app.GoTo(r.FormValue("cdoc"), ruleid, r.FormValue("cset"))
		},
		"/page": func(r *http.Request, app *webapp.App) error {
			page, err := strconv.Atoi(r.FormValue("page"))
			if err != nil {
				return fmt.Errorf("invalid page %q: %w", r.FormValue("page"), errBadRequest)
			}

			app.ShowPage(r.FormValue("cdoc"), page)

			return nil
		},
		"/tab": func(r *http.Request, app *webapp.App) error {
			app.ActivateTab(r.FormValue("group"), r.FormValue("tab"))
			return nil
		},
		"/pane": func(r *http.Request, app *webapp.App) error {
			return app.ClickPane(r.FormValue("accordion"), r.FormValue("key"))
		},
		"/entry": func(r *http.Request, app *webapp.App) error {
			return app.ClickEntry(r.FormValue("accordion"), r.FormValue("pane"), r.FormValue("entry"))
		},
		"/collapser": func(r *http.Request, app *webapp.App) error {
			return app.ToggleCollapser(r.FormValue("id"))
		},
		"/sr-filter": func(r *http.Request, app *webapp.App) error {
			show, err := strconv.ParseBool(r.FormValue("show"))
			if err != nil {
				return fmt.Errorf("invalid show %q: %w", r.FormValue("show"), errBadRequest)
			}

			return app.SetSRFilter(core.SRType(r.FormValue("type")), show)
		},
		"/asop-sr": func(r *http.Request, app *webapp.App) error {
			i, err := strconv.Atoi(r.FormValue("index"))
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", r.FormValue("index"), errBadRequest)
			}

			return app.ClickASOPResult(i)
		},
		"/escape": func(_ *http.Request, app *webapp.App) error {
			app.Escape()
			return nil
		},
	}
}

// appPage handles GET / - renders the viewer. A request carrying options
// (or no session cookie) starts a new application, since options only take
// effect at startup.
func (a *API) appPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.session(r)
	if !ok || len(r.URL.Query()) > 0 {
		sess = a.sessions.create(r.Context(), webapp.ParseOptions(r.URL.Query()))

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.id,
			Path:     "/",
			MaxAge:   int(a.sessions.ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		a.serve(w, r, sess, func(_ *http.Request, app *webapp.App) error {
			app.Start()
			return nil
		})

		return
	}

	a.serve(w, r, sess, nil)
}

// action returns the handler for an action route.
func (a *API) action(act actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := a.session(r)
		if !ok {
			// The session is gone; start over with a fresh one.
			if isHTMXRequest(r) {
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusOK)

				return
			}

			http.Redirect(w, r, "/", http.StatusSeeOther)

			return
		}

		a.serve(w, r, sess, act)
	}
}

// serve applies act to the session's application, waits for the
// application to settle and renders it.
func (a *API) serve(w http.ResponseWriter, r *http.Request, sess *session, act actionFunc) {
	ctx := r.Context()
	reqID := middleware.ReqID(ctx)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var actErr error

	dispatchCtx, cancel := context.WithTimeout(ctx, a.config.ActionTimeout)
	defer cancel()

	err := sess.app.Dispatch(dispatchCtx, func(app *webapp.App) {
		if act != nil {
			actErr = act(r, app)
		}
	})
	if err != nil {
		// Fetches still in flight are shown on the next request.
		slog.WarnContext(ctx, "Application did not settle", "error", err, "session", sess.id, "req_id", reqID)
	}

	switch {
	case actErr == nil, errors.Is(actErr, webapp.ErrUnknownTarget):
	case errors.Is(actErr, errBadRequest), errors.Is(actErr, webapp.ErrUnknownComponent):
		slog.WarnContext(ctx, "Rejected action", "error", actErr, "path", r.URL.Path, "req_id", reqID)
		http.Error(w, actErr.Error(), http.StatusBadRequest)

		return
	default:
		slog.ErrorContext(ctx, "Action failed", "error", actErr, "path", r.URL.Path, "req_id", reqID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	if r.Method != http.MethodGet && !isHTMXRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	snap := sess.app.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := a.views.RenderApp(w, snap, isHTMXRequest(r)); err != nil {
		slog.ErrorContext(ctx, "Failed to render app", "error", err, "req_id", reqID)
	}
}

// session returns the live session named by the request's cookie.
func (a *API) session(r *http.Request) (*session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}

	return a.sessions.get(c.Value)
}

// notFound handles every unknown GET route.
func (a *API) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)

	if err := a.views.RenderNotFound(w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render not found page", "error", err)
	}
}
