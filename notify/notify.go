// Package notify carries user-visible notices from the session and list components to the page.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

type Notifier interface {
	Notify(level Level, message string)
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}

// Queue buffers notifications until the next page render drains them.
// The oldest entries are dropped once max is reached.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = 10
	}
	return &Queue{max: max, now: time.Now}
}

func (q *Queue) Notify(level Level, message string) {
	if message == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Notification{Level: level, Message: message, At: q.now()})
	if over := len(q.items) - q.max; over > 0 {
		q.items = append([]Notification(nil), q.items[over:]...)
	}
}

// Drain returns and clears the pending notifications.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(level Level, message string) {
	for _, n := range m {
		n.Notify(level, message)
	}
}

// Log records notifications on a logger. Errors are logged at warn level and
// everything else at debug.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Notify(level Level, message string) {
	ev := l.Logger.Debug()
	if level == LevelError {
		ev = l.Logger.Warn()
	}
	ev.Str("level_notice", string(level)).Msg(message)
}
