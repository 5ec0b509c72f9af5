package chat

import "time"

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification texts raised by the session.
const (
	NoticeRequestFailed     = "Request failed. Please try again."
	NoticeConnectionError   = "Connection error. Please try again."
	NoticeConnected         = "Connected to backend"
	NoticeConnectionRestore = "Connection restored"
	NoticeConnectionLost    = "Connection lost"
)

// Notification is a short-lived message for the user.
type Notification struct {
	ID        string
	Kind      Kind
	Text      string
	CreatedAt time.Time
}

// Notifier shows notifications. Implementations must not call back into the
// Session synchronously while holding their own locks.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}
