// Package notify carries user-visible messages from the editing core to
// whatever front end is showing it.
package notify

import (
	"log"
	"time"
)

// Severity of a notification.
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

// Notifier shows a message to the user for roughly duration.
type Notifier interface {
	Notify(title, message string, severity Severity, duration time.Duration)
}

// Func adapts a function to Notifier.
type Func func(title, message string, severity Severity, duration time.Duration)

func (f Func) Notify(title, message string, severity Severity, duration time.Duration) {
	f(title, message, severity, duration)
}

// Log writes notifications to the standard logger. It is the fallback
// when no front end is attached.
var Log Notifier = Func(func(title, message string, severity Severity, _ time.Duration) {
	log.Printf("[%s] %s: %s", severity, title, message)
})
