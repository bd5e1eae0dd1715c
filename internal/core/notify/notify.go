// Package notify defines the transient notifications surfaced as toasts.
// Failures are always local to the triggering control; a failed save or
// submit never takes down the whole view.
package notify

import "fmt"

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Notification is one toast-able message.
type Notification struct {
	Level   Level
	Message string
}

// Infof builds an info notification.
func Infof(format string, args ...any) Notification {
	return Notification{Level: LevelInfo, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning notification.
func Warnf(format string, args ...any) Notification {
	return Notification{Level: LevelWarning, Message: fmt.Sprintf(format, args...)}
}

// Errorf builds an error notification.
func Errorf(format string, args ...any) Notification {
	return Notification{Level: LevelError, Message: fmt.Sprintf(format, args...)}
}
