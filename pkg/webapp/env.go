package webapp

import (
	"context"

	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/core"
)

// env is what every component of an application instance shares.
type env struct {
	ctx        context.Context
	bus        *bus.Bus
	loop       *bus.Loop
	backend    Backend
	state      func() *core.AppState
	notes      *Notifier
	collapse   *CollapseStates
	collapsers map[string]*Collapser
	// hideFootnotes closes the footnote popup; a search does this before anything else.
	hideFootnotes func()
}

func (e *env) config() *core.AppConfig {
	return e.state().Config
}

// fetch runs fn off the loop and hands its result back to done on the loop.
func fetch[T any](e *env, fn func(ctx context.Context) (T, error), done func(T, error)) {
	e.loop.Go(e.ctx, func(ctx context.Context) func() {
		v, err := fn(ctx)

		return func() { done(v, err) }
	})
}

// subscriptions collects the unsubscribe functions of a component.
type subscriptions []func()

func (s *subscriptions) add(unsub func()) {
	*s = append(*s, unsub)
}

func (s *subscriptions) close() {
	for _, unsub := range *s {
		unsub()
	}

	*s = nil
}
