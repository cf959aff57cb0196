// Package bus provides the typed publish/subscribe channel that couples the
// view components, and the single-threaded loop they run on.
package bus

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

type handler struct {
	fn      func(Event)
	removed atomic.Bool
}

// Bus dispatches events synchronously to the handlers registered for them.
type Bus struct {
	handlers map[string][]*handler
	mu       sync.Mutex
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]*handler)}
}

// On registers fn for events of type E. Handlers run in registration order.
// The returned function unsubscribes fn; calling it more than once is harmless.
func On[E Event](b *Bus, fn func(E)) (unsubscribe func()) {
	var zero E

	name := zero.eventName()
	h := &handler{fn: func(e Event) {
		if ev, ok := e.(E); ok {
			fn(ev)
		}
	}}

	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], h)
	b.mu.Unlock()

	return func() {
		if h.removed.Swap(true) {
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()

		list := b.handlers[name]
		kept := make([]*handler, 0, len(list))

		for _, other := range list {
			if other != h {
				kept = append(kept, other)
			}
		}

		b.handlers[name] = kept
	}
}

// Emit calls every handler registered for the event. Handlers registered
// while Emit is running are not called for this event; handlers removed while
// it is running are skipped.
func (b *Bus) Emit(e Event) {
	name := e.eventName()

	b.mu.Lock()
	handlers := b.handlers[name]
	b.mu.Unlock()

	slog.Debug("emit", "event", name, "handlers", len(handlers))

	for _, h := range handlers {
		if h.removed.Load() {
			continue
		}

		h.fn(e)
	}
}

// Handlers returns the number of handlers registered for the event's type.
func (b *Bus) Handlers(e Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.handlers[e.eventName()])
}
