// Package notify delivers user-facing messages from the burn workflow.
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

type Notification struct {
	Severity    Severity
	Title       string
	Description string
}

// Notifier is a sink for workflow messages. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n Notification)
}

// Console prints one line per notification.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console { return &Console{w: w} }

func (c *Console) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n.Description == "" {
		fmt.Fprintf(c.w, "[%s] %s\n", n.Severity, n.Title)
		return
	}
	fmt.Fprintf(c.w, "[%s] %s - %s\n", n.Severity, n.Title, n.Description)
}

// Logger forwards notifications to a zap logger.
type Logger struct {
	log *zap.SugaredLogger
}

func NewLogger(log *zap.SugaredLogger) *Logger { return &Logger{log: log} }

func (l *Logger) Notify(n Notification) {
	kv := []interface{}{"severity", n.Severity.String(), "description", n.Description}
	switch n.Severity {
	case Error:
		l.log.Errorw(n.Title, kv...)
	case Warning:
		l.log.Warnw(n.Title, kv...)
	default:
		l.log.Infow(n.Title, kv...)
	}
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	all []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, n)
}

func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.all...)
}

func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.all) == 0 {
		return Notification{}, false
	}
	return r.all[len(r.all)-1], true
}
