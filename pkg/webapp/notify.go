package webapp

import (
	"log/slog"
	"time"
)

// Level is the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	infoDuration    = 5 * time.Second
	warningDuration = 15 * time.Second
)

// Notification is a message shown to the user as a toast. HTML holds
// trusted markup: the message text plus an optional detail block.
type Notification struct {
	Expires time.Time
	Level   Level
	HTML    string
}

// Notifier collects the notifications of one application instance.
// Errors stay until dismissed; info and warnings expire.
type Notifier struct {
	now    func() time.Time
	stored map[Level][]string
	toasts []Notification
	store  bool
}

// NewNotifier creates a Notifier. With store set, messages are kept in a
// per-level list instead of being shown as toasts.
func NewNotifier(store bool) *Notifier {
	return &Notifier{
		now:    time.Now,
		stored: make(map[Level][]string),
		store:  store,
	}
}

// Info shows an informational message.
func (n *Notifier) Info(msg string) { n.add(LevelInfo, msg, "") }

// Warning shows a warning, with optional detail.
func (n *Notifier) Warning(msg, detail string) { n.add(LevelWarning, msg, detail) }

// Error shows an error, with optional detail.
func (n *Notifier) Error(msg, detail string) { n.add(LevelError, msg, detail) }

// Show shows a message at the given level.
func (n *Notifier) Show(level Level, msg, detail string) { n.add(level, msg, detail) }

func (n *Notifier) add(level Level, msg, detail string) {
	text := withDetail(msg, detail)

	slog.Debug("notification", "level", level, "msg", msg, "detail", detail)

	if n.store {
		n.stored[level] = append(n.stored[level], text)
		return
	}

	note := Notification{Level: level, HTML: text}

	switch level {
	case LevelError:
	case LevelWarning:
		note.Expires = n.now().Add(warningDuration)
	default:
		note.Expires = n.now().Add(infoDuration)
	}

	n.toasts = append(n.toasts, note)
}

// Toasts returns the notifications that have not expired yet.
func (n *Notifier) Toasts() []Notification {
	now := n.now()
	live := n.toasts[:0]

	for _, t := range n.toasts {
		if t.Expires.IsZero() || now.Before(t.Expires) {
			live = append(live, t)
		}
	}

	n.toasts = live

	out := make([]Notification, len(live))
	copy(out, live)

	return out
}

// Stored returns the messages kept for a level when storing is enabled.
func (n *Notifier) Stored(level Level) []string {
	return n.stored[level]
}

// Dismiss closes every toast.
func (n *Notifier) Dismiss() {
	n.toasts = nil
}

// withDetail appends a preformatted detail block to msg.
func withDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}

	return msg + " <div class='pre'>" + detail + "</div>"
}
