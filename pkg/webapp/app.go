// Package webapp is the view component graph of the rulebook viewer. The
// components know nothing of how they are drawn: they hold display state,
// react to bus events and are rendered by the HTML and terminal front ends.
package webapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

var (
	// ErrUnknownTarget is returned when asked to open a ruleid that no content doc defines.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrUnknownComponent is returned by actions addressed to a component that does not exist.
	ErrUnknownComponent = errors.New("unknown component")
)

const startupFetches = 4

// App is one instance of the rulebook viewer. All of its methods, other than
// Dispatch, must run on its loop.
type App struct {
	env       *env
	cancel    context.CancelFunc
	current   *core.AppState
	Notes     *Notifier
	Settings  *Settings
	Nav       *NavPane
	Content   *ContentPane
	Footnotes *FootnotePopup
	ASOP      *ASOPViewer
	opts      Options
	subs      subscriptions
	pending   int
	loaded    bool
}

// New builds the component graph. Fetches run with a context derived from
// ctx that is cancelled by Close.
func New(ctx context.Context, backend Backend, loop *bus.Loop, opts Options) *App {
	ctx, cancel := context.WithCancel(ctx)

	a := &App{
		cancel:   cancel,
		current:  core.NewAppState(),
		Notes:    NewNotifier(opts.StoreMsgs),
		Settings: NewSettings(),
		opts:     opts,
	}

	a.env = &env{
		ctx:        ctx,
		bus:        bus.New(),
		loop:       loop,
		backend:    backend,
		state:      func() *core.AppState { return a.current },
		notes:      a.Notes,
		collapse:   NewCollapseStates(),
		collapsers: make(map[string]*Collapser),
	}

	a.Nav = newNavPane(a.env, a.Settings)
	a.Content = newContentPane(a.env, opts.NoContent)
	a.Footnotes = newFootnotePopup(a.env)
	a.env.hideFootnotes = func() { a.Footnotes.Close() }
	a.ASOP = newASOPViewer(a.env)

	a.subs.add(bus.On(a.env.bus, a.onEscape))

	return a
}

// Bus returns the application's event bus.
func (a *App) Bus() *bus.Bus { return a.env.bus }

// State returns the current application data.
func (a *App) State() *core.AppState { return a.current }

// Options returns the options the application was created with.
func (a *App) Options() Options { return a.opts }

// Loaded reports whether every startup fetch has settled.
func (a *App) Loaded() bool { return a.loaded }

// Dispatch runs fn on the loop and waits until the application is idle
// again or ctx is done.
func (a *App) Dispatch(ctx context.Context, fn func(*App)) error {
	a.env.loop.Post(func() { fn(a) })

	if err := a.env.loop.Flush(ctx); err != nil {
		return fmt.Errorf("failed to settle application: %w", err)
	}

	return nil
}

// Start fetches the application data. Each fetch reports its own failure
// and the application carries on with whatever did arrive.
func (a *App) Start() {
	a.pending = startupFetches

	fetch(a.env, a.env.backend.AppConfig, func(cfg *core.AppConfig, err error) {
		defer a.settle()

		if err != nil {
			a.Notes.Error("Couldn't get the app config.", err.Error())
			return
		}

		a.current = a.current.WithConfig(cfg)
		a.env.bus.Emit(bus.AppConfigLoaded{})
	})

	fetch(a.env, a.env.backend.ContentDocs, func(docs []core.ContentDoc, err error) {
		defer a.settle()

		if err != nil {
			a.Notes.Error("Couldn't get the content docs.", err.Error())
			return
		}

		if a.opts.AddEmptyDoc {
			docs = append(docs, emptyDoc)
		}

		a.current = a.current.WithContentDocs(docs)
		a.Content.install(a.current.ContentDocs())

		if len(docs) > 0 {
			a.env.bus.Emit(bus.ShowPage{CDocID: docs[0].CDocID, PageNo: 1})
		}
	})

	fetch(a.env, a.env.backend.Footnotes, func(fi core.FootnoteIndex, err error) {
		defer a.settle()

		if err != nil {
			a.Notes.Error("Couldn't get the footnote index.", err.Error())
			return
		}

		a.current = a.current.WithFootnotes(fi)
	})

	fetch(a.env, a.env.backend.ASOP, func(asop *core.ASOP, err error) {
		defer a.settle()

		if err != nil {
			a.Notes.Error("Couldn't get the ASOP.", err.Error())
			return
		}

		a.current = a.current.WithASOP(asop)

		if a.current.HasASOP() {
			a.ASOP.showIntro()
		}
	})
}

func (a *App) settle() {
	a.pending--
	if a.pending > 0 {
		return
	}

	a.loaded = true
	slog.Info("application loaded",
		"content_docs", len(a.current.ContentDocs()),
		"targets", a.current.Targets.Len(),
		"asop", a.current.HasASOP(),
	)

	a.env.bus.Emit(bus.AppLoaded{})

	fetch(a.env, a.env.backend.StartupMsgs, func(msgs *core.StartupMsgs, err error) {
		if err != nil {
			a.Notes.Error("Couldn't get the startup messages.", err.Error())
			return
		}

		a.showStartupMsgs(msgs)
	})

	query := a.opts.Query
	if query == "" && a.current.Config != nil {
		query = a.current.Config.InitialQueryString
	}

	if query != "" {
		a.env.bus.Emit(bus.SearchFor{Query: query})
	}
}

func (a *App) showStartupMsgs(msgs *core.StartupMsgs) {
	if msgs == nil {
		return
	}

	for _, group := range []struct {
		level Level
		msgs  []core.StartupMsg
	}{
		{LevelInfo, msgs.Info},
		{LevelWarning, msgs.Warning},
		{LevelError, msgs.Error},
	} {
		for _, m := range group.msgs {
			a.Notes.Show(group.level, m.Text, m.Detail)
		}
	}
}

// onEscape closes things in order of priority: toasts always go, then the
// footnotes or else the rule info popup consume the key. If neither was
// open, the nav pane goes back to the search tab.
func (a *App) onEscape(bus.EscapePressed) {
	a.Notes.Dismiss()

	if a.Footnotes.Close() {
		return
	}

	if a.Nav.RuleInfo.Close() {
		return
	}

	a.env.bus.Emit(bus.ActivateTab{Group: navTabGroup, Tab: navTabSearch})
}

// Escape is the global cancel action.
func (a *App) Escape() {
	a.env.bus.Emit(bus.EscapePressed{})
}

// Search puts q into the search box and runs it.
func (a *App) Search(q string) {
	a.env.bus.Emit(bus.SearchFor{Query: q})
}

// GoTo opens a ruleid the user asked for explicitly. When cdocID is set the
// target in that document is preferred. An unknown ruleid is reported as an
// error notification.
func (a *App) GoTo(cdocID, ruleid, csetID string) error {
	targets := a.current.Targets.Resolve(ruleid, csetID)
	if len(targets) == 0 {
		a.Notes.Error("Unknown target: "+ruleid, "")
		return fmt.Errorf("%s: %w", ruleid, ErrUnknownTarget)
	}

	tgt := targets[0]

	for _, t := range targets {
		if cdocID != "" && t.CDocID == cdocID {
			tgt = t
			break
		}
	}

	a.env.bus.Emit(bus.ShowTarget{CDocID: tgt.CDocID, Ruleid: tgt.Ruleid})

	return nil
}

// ShowPage opens a content doc at a page.
func (a *App) ShowPage(cdocID string, pageNo int) {
	a.env.bus.Emit(bus.ShowPage{CDocID: cdocID, PageNo: pageNo})
}

// ActivateTab switches a tab group to a tab.
func (a *App) ActivateTab(group, tab string) {
	a.env.bus.Emit(bus.ActivateTab{Group: group, Tab: tab})
}

// ClickPane toggles a pane of the chapters or ASOP accordion.
func (a *App) ClickPane(accordion, key string) error {
	acc, ok := a.Nav.Accordion(accordion)
	if !ok {
		return fmt.Errorf("accordion %s: %w", accordion, ErrUnknownComponent)
	}

	acc.ClickTitle(key)

	return nil
}

// ClickEntry clicks an entry of an accordion pane.
func (a *App) ClickEntry(accordion, paneKey, entryKey string) error {
	acc, ok := a.Nav.Accordion(accordion)
	if !ok {
		return fmt.Errorf("accordion %s: %w", accordion, ErrUnknownComponent)
	}

	if !acc.ClickEntry(paneKey, entryKey) {
		return fmt.Errorf("entry %s of pane %s: %w", entryKey, paneKey, ErrUnknownComponent)
	}

	return nil
}

// ToggleCollapser toggles the collapser with the given id.
func (a *App) ToggleCollapser(id string) error {
	c, ok := a.env.collapsers[id]
	if !ok {
		return fmt.Errorf("collapser %s: %w", id, ErrUnknownComponent)
	}

	c.Toggle()

	return nil
}

// Collapser returns a live collapser by id.
func (a *App) Collapser(id string) (*Collapser, bool) {
	c, ok := a.env.collapsers[id]
	return c, ok
}

// SetSRFilter shows or hides a type of search result.
func (a *App) SetSRFilter(t core.SRType, show bool) error {
	if !a.Nav.Box.SetFilter(t, show) {
		return fmt.Errorf("search result filter %s: %w", t, ErrUnknownComponent)
	}

	return nil
}

// ClickASOPResult shows the ASOP section of the search result at index i.
func (a *App) ClickASOPResult(i int) error {
	r, ok := a.Nav.Results.Result(i)
	if !ok {
		return fmt.Errorf("search result %d: %w", i, ErrUnknownComponent)
	}

	sr, ok := r.(*core.ASOPEntrySR)
	if !ok {
		return fmt.Errorf("search result %d is %s, not an ASOP entry: %w", i, r.Type(), ErrUnknownComponent)
	}

	a.env.bus.Emit(bus.ShowASOPEntrySR{SectionID: sr.SectionID, Content: sr.Content})

	return nil
}

// Close detaches every component from the bus and cancels outstanding fetches.
func (a *App) Close() {
	a.cancel()
	a.subs.close()
	a.Nav.Close()
	a.Content.Close()
	a.Footnotes.Detach()
	a.ASOP.Close()
}
