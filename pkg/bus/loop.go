package bus

import (
	"context"
	"sync"
)

// Loop runs the tasks of one application instance one at a time. Component
// code only ever runs inside a loop task, so components need no locking of
// their own. Network fetches run on their own goroutines and post their
// completions back onto the loop.
type Loop struct {
	wake     chan struct{}
	queue    []func()
	mu       sync.Mutex
	inflight int
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	l.signal()
}

// Go runs work on a new goroutine. The function work returns, if not nil,
// is posted back onto the loop. Work is never cancelled by the loop; ctx is
// handed to it for its own request deadlines.
func (l *Loop) Go(ctx context.Context, work func(ctx context.Context) func()) {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()

	go func() {
		done := work(ctx)

		l.mu.Lock()
		l.inflight--

		if done != nil {
			l.queue = append(l.queue, done)
		}
		l.mu.Unlock()

		l.signal()
	}()
}

// Flush runs queued tasks until no task is queued and no fetch is in
// flight, or until ctx is done. Completions that arrive after Flush returned
// run on the next Flush.
func (l *Loop) Flush(ctx context.Context) error {
	for {
		l.mu.Lock()
		queue := l.queue
		l.queue = nil
		inflight := l.inflight
		l.mu.Unlock()

		if len(queue) > 0 {
			for _, fn := range queue {
				fn()
			}

			continue
		}

		if inflight == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Pending reports the number of queued tasks and in-flight fetches.
func (l *Loop) Pending() (queued, inflight int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.queue), l.inflight
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
