package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ksysoev/rulebook/pkg/bus"
	"github.com/ksysoev/rulebook/pkg/webapp"
)

const (
	defaultSessionTTL  = 30 * time.Minute
	defaultMaxSessions = 1000
)

// session is one browser's application instance. Its lock is held for the
// whole of every request, which makes the request goroutine the only one
// ever running the application's loop.
type session struct {
	lastSeen time.Time
	app      *webapp.App
	id       string
	mu       sync.Mutex
}

// sessionStore keeps the live sessions. When full, the least recently used
// session makes way for a new one.
type sessionStore struct {
	now      func() time.Time
	newApp   func(ctx context.Context, opts webapp.Options) *webapp.App
	sessions map[string]*session
	ttl      time.Duration
	max      int
	mu       sync.Mutex
}

func newSessionStore(backend webapp.Backend, ttl time.Duration, maxSessions int) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	return &sessionStore{
		now: time.Now,
		newApp: func(ctx context.Context, opts webapp.Options) *webapp.App {
			return webapp.New(ctx, backend, bus.NewLoop(), opts)
		},
		sessions: make(map[string]*session),
		ttl:      ttl,
		max:      maxSessions,
	}
}

// get returns a live session and marks it as used.
func (s *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if now.Sub(sess.lastSeen) > s.ttl {
		s.remove(sess)
		return nil, false
	}

	sess.lastSeen = now

	return sess, true
}

// create starts a new application for opts. The application outlives the
// request that created it, so it only inherits the request's values.
func (s *sessionStore) create(ctx context.Context, opts webapp.Options) *session {
	sess := &session{
		id:  uuid.NewString(),
		app: s.newApp(context.WithoutCancel(ctx), opts),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		s.evictOldest()
	}

	sess.lastSeen = s.now()
	s.sessions[sess.id] = sess
	sessionsActive.Set(float64(len(s.sessions)))
	sessionsCreated.Inc()

	slog.InfoContext(ctx, "Session created", "session", sess.id, "sessions", len(s.sessions))

	return sess
}

// expire closes every session idle for longer than the TTL.
func (s *sessionStore) expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0

	for _, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			s.remove(sess)
			n++
		}
	}

	return n
}

// len returns the number of live sessions.
func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// closeAll closes every session.
func (s *sessionStore) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		s.remove(sess)
	}
}

// run expires idle sessions until ctx is done.
func (s *sessionStore) run(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			if n := s.expire(); n > 0 {
				slog.DebugContext(ctx, "Expired idle sessions", "count", n)
			}
		}
	}
}

func (s *sessionStore) evictOldest() {
	var oldest *session

	for _, sess := range s.sessions {
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}

	if oldest != nil {
		slog.Info("Session evicted", "session", oldest.id)
		s.remove(oldest)
	}
}

// remove must be called with s.mu held. The application is closed under
// the session's own lock so that a request still using it finishes first.
func (s *sessionStore) remove(sess *session) {
	delete(s.sessions, sess.id)
	sessionsActive.Set(float64(len(s.sessions)))

	go func() {
		sess.mu.Lock()
		defer sess.mu.Unlock()

		sess.app.Close()
	}()
}
