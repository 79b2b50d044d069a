package builder

import (
	"log"
	"sync"
)

// Severity of a user-facing notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is a message for whoever is editing the program.
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Notifier receives notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	log.Printf("INFO: notify [%s] %s", n.Severity, n.Message)
}

// NotificationLog buffers notifications until they are drained, forwarding
// each one to Next when set.
type NotificationLog struct {
	Next Notifier

	mu    sync.Mutex
	items []Notification
}

func (l *NotificationLog) Notify(n Notification) {
	l.mu.Lock()
	l.items = append(l.items, n)
	l.mu.Unlock()
	if l.Next != nil {
		safeNotify(l.Next, n)
	}
}

// Drain returns everything buffered so far and empties the buffer.
func (l *NotificationLog) Drain() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// safeNotify delivers n and swallows a panicking sink.
func safeNotify(sink Notifier, n Notification) {
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: notification sink panicked on %q: %v", n.Message, r)
		}
	}()
	sink.Notify(n)
}
