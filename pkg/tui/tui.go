// Package tui is the terminal front end of the rulebook viewer. It drives
// the same application as the web front end and draws its snapshots with
// lipgloss.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/webapp"
)

const (
	refreshInterval = time.Second
	actionTimeout   = 10 * time.Second
	headerLines     = 4
	footerLines     = 3
)

// snapshotMsg carries the application state after an action settled.
type snapshotMsg struct {
	snap *webapp.Snapshot
	err  error
}

// tickMsg refreshes the screen so late fetches and expiring toasts show up.
type tickMsg struct{}

// driver serializes access to the application: bubbletea runs commands
// concurrently, the application's loop must only ever be flushed by one.
type driver struct {
	ctx context.Context
	app *webapp.App
	mu  sync.Mutex
}

func (d *driver) do(fn func(*webapp.App) error) tea.Cmd {
	return func() tea.Msg {
		d.mu.Lock()
		defer d.mu.Unlock()

		ctx, cancel := context.WithTimeout(d.ctx, actionTimeout)
		defer cancel()

		var actErr error

		err := d.app.Dispatch(ctx, func(app *webapp.App) {
			if fn != nil {
				actErr = fn(app)
			}
		})
		if actErr == nil {
			actErr = err
		}

		return snapshotMsg{snap: d.app.Snapshot(), err: actErr}
	}
}

// Model is the bubbletea model of the viewer.
type Model struct {
	drv      *driver
	snap     *webapp.Snapshot
	text     *textRenderer
	status   string
	input    textinput.Model
	body     viewport.Model
	selected int
	width    int
	height   int
}

// New creates a Model over app. The application is started by Init.
func New(ctx context.Context, app *webapp.App) Model {
	in := textinput.New()
	in.Placeholder = "Search, or :help"
	in.Prompt = "> "
	in.Focus()

	return Model{
		drv:   &driver{ctx: ctx, app: app},
		snap:  &webapp.Snapshot{},
		text:  newTextRenderer(),
		input: in,
		body:  viewport.New(80, 20),
	}
}

// Run starts a viewer application against backend and runs the terminal UI until the user quits.
func Run(ctx context.Context, backend webapp.Backend, opts webapp.Options) error {
	app := webapp.New(ctx, backend, bus.NewLoop(), opts)
	defer app.Close()

	p := tea.NewProgram(New(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}

	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.drv.do(func(app *webapp.App) error {
			app.Start()
			return nil
		}),
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		m.body.Width = msg.Width
		m.body.Height = max(msg.Height-headerLines-footerLines, 1)
		m.refreshBody()

		return m, nil
	case snapshotMsg:
		m.snap = msg.snap
		m.status = ""

		if msg.err != nil {
			m.status = msg.err.Error()
		}

		m.clampSelection()
		m.refreshBody()

		return m, nil
	case tickMsg:
		return m, tea.Batch(m.drv.do(nil), tick())
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		return m, m.drv.do(func(app *webapp.App) error {
			app.Escape()
			return nil
		})
	case tea.KeyTab:
		next := nextTab(m.snap.Nav.Tabs)
		group := m.snap.Nav.Tabs.ID
		m.selected = 0

		return m, m.drv.do(func(app *webapp.App) error {
			app.ActivateTab(group, next)
			return nil
		})
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}

		m.refreshBody()

		return m, nil
	case tea.KeyDown:
		if m.selected < len(m.items())-1 {
			m.selected++
		}

		m.refreshBody()

		return m, nil
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)

		return m, cmd
	case tea.KeyEnter:
		line := m.input.Value()
		m.input.Reset()

		if line == "" {
			return m, m.activateSelected()
		}

		act, err := parseCommand(line)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}

		if act == nil {
			m.status = helpText
			return m, nil
		}

		m.selected = 0

		return m, m.drv.do(act)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// activateSelected acts on the highlighted line, the way a click would.
func (m Model) activateSelected() tea.Cmd {
	items := m.items()
	if m.selected < 0 || m.selected >= len(items) || items[m.selected].act == nil {
		return nil
	}

	return m.drv.do(items[m.selected].act)
}

func (m *Model) clampSelection() {
	if n := len(m.items()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func nextTab(tabs webapp.TabsView) string {
	for i, t := range tabs.Tabs {
		if t.ID == tabs.Active {
			return tabs.Tabs[(i+1)%len(tabs.Tabs)].ID
		}
	}

	if len(tabs.Tabs) > 0 {
		return tabs.Tabs[0].ID
	}

	return ""
}
