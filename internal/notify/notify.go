// Package notify delivers shop notifications to logs and a recent-activity feed.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sink receives fire-and-forget notifications.
type Sink interface {
	Notify(title, description string)
}

// Logger writes each notification as a structured log entry.
type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.Named("notify")}
}

func (l *Logger) Notify(title, description string) {
	l.logger.Info(title, zap.String("description", description))
}

// Notification is one entry in the feed.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Feed keeps the most recent notifications in a fixed-size ring.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	next  int
	full  bool
	now   func() time.Time
}

// NewFeed returns a feed holding up to size notifications (at least one).
func NewFeed(size int) *Feed {
	if size < 1 {
		size = 1
	}
	return &Feed{items: make([]Notification, size), now: time.Now}
}

func (f *Feed) Notify(title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[f.next] = Notification{Title: title, Description: description, At: f.now().UTC()}
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns up to limit notifications, oldest first. A limit <= 0
// returns everything held.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	ordered := make([]Notification, 0, len(f.items))
	if f.full {
		ordered = append(ordered, f.items[f.next:]...)
	}
	ordered = append(ordered, f.items[:f.next]...)

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Notify(title, description string) {
	for _, s := range m {
		if s != nil {
			s.Notify(title, description)
		}
	}
}
