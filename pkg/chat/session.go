package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"taskchat/pkg/backend"

	"github.com/pkg/errors"
)

// Backend is the remote side of a session.
type Backend interface {
	Run(ctx context.Context, task string) (backend.RunResponse, error)
	Health(ctx context.Context) error
}

// Reply is what Relay got back for a Pending request.
type Reply struct {
	Response backend.RunResponse
	Err      error
}

// Signal is an external connectivity event.
type Signal string

const (
	SignalOnline  Signal = "online"
	SignalOffline Signal = "offline"
)

// SignalHandler reacts to a Signal.
type SignalHandler func(ctx context.Context, s *Session)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithIDGenerator replaces the random id source for messages, requests and
// notifications.
func WithIDGenerator(gen func() string) Option {
	return func(s *Session) {
		s.newID = gen
	}
}

// Session is the state of one conversation. It is safe for concurrent use;
// the network call in Relay runs without holding the lock.
type Session struct {
	mu        sync.Mutex
	messages  []Message
	connected bool
	pending   *Pending
	handlers  map[Signal]SignalHandler

	backend  Backend
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

// NewSession creates an empty, disconnected session.
func NewSession(b Backend, n Notifier, opts ...Option) *Session {
	if n == nil {
		n = discardNotifier{}
	}
	s := &Session{
		backend:  b,
		notifier: n,
		now:      time.Now,
		newID:    newID,
	}
	s.handlers = map[Signal]SignalHandler{
		SignalOnline:  handleOnline,
		SignalOffline: handleOffline,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs Begin, Relay and Complete in sequence.
func (s *Session) Submit(ctx context.Context, text string) Outcome {
	p, ok := s.Begin(text)
	if !ok {
		return OutcomeRejected
	}
	return s.Complete(p, s.Relay(ctx, p))
}

// Begin records the user's message and marks the session busy. It returns
// false, and changes nothing, for blank text or while another request is
// pending.
func (s *Session) Begin(text string) (Pending, bool) {
	task := strings.TrimSpace(text)
	if task == "" {
		return Pending{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		slog.Debug("chat_submit_rejected", "reason", "pending", "request_id", s.pending.ID)
		return Pending{}, false
	}

	now := s.now()
	p := Pending{ID: s.newID(), Task: task, StartedAt: now}
	s.messages = append(s.messages, Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Text:      task,
		Timestamp: now,
	})
	s.pending = &p

	slog.Info("chat_submit", "request_id", p.ID, "chars", len(task))
	return p, true
}

// Relay sends the pending task to the backend. It does not touch session
// state, so it can run on another goroutine.
func (s *Session) Relay(ctx context.Context, p Pending) Reply {
	ctx = backend.WithRequestID(ctx, p.ID)
	resp, err := s.backend.Run(ctx, p.Task)
	if err != nil {
		return Reply{Err: errors.Wrap(err, "relay task")}
	}
	return Reply{Response: resp}
}

// Complete records the bot's side of the exchange and clears the pending
// request. Replies for anything but the current request are dropped.
func (s *Session) Complete(p Pending, r Reply) Outcome {
	s.mu.Lock()
	if s.pending == nil || s.pending.ID != p.ID {
		s.mu.Unlock()
		slog.Warn("chat_stale_reply", "request_id", p.ID)
		return OutcomeRejected
	}
	s.pending = nil

	var (
		outcome Outcome
		text    string
		notice  string
	)
	switch {
	case r.Err != nil:
		outcome = OutcomeConnectionError
		text = ConnectionErrorText
		notice = NoticeConnectionError
		s.connected = false
	case !r.Response.OK():
		outcome = OutcomeProcessingError
		text = ProcessingErrorText
		notice = NoticeRequestFailed
	default:
		outcome = OutcomeReplied
		text = r.Response.Result
	}

	now := s.now()
	s.messages = append(s.messages, Message{
		ID:        s.newID(),
		Role:      RoleBot,
		Text:      text,
		Timestamp: now,
	})
	s.mu.Unlock()

	attrs := []any{
		"request_id", p.ID,
		"outcome", outcome.String(),
		"duration_ms", now.Sub(p.StartedAt).Milliseconds(),
	}
	if r.Err != nil {
		attrs = append(attrs, "error", r.Err.Error())
		slog.Error("chat_complete", attrs...)
	} else {
		attrs = append(attrs, "status", r.Response.Status)
		slog.Info("chat_complete", attrs...)
	}

	if notice != "" {
		s.notify(KindError, notice)
	}
	return outcome
}

// CheckHealth probes the backend once and updates the connection status.
// Errors are not surfaced beyond the returned state.
func (s *Session) CheckHealth(ctx context.Context) bool {
	err := s.backend.Health(ctx)
	connected := err == nil

	s.mu.Lock()
	was := s.connected
	s.connected = connected
	s.mu.Unlock()

	if err != nil {
		slog.Debug("health_check_failed", "error", err.Error())
	}
	if was != connected {
		slog.Info("connection_changed", "connected", connected, "source", "health")
	}
	if connected && !was {
		s.notify(KindSuccess, NoticeConnected)
	}
	return connected
}

// HandleSignal runs the handler bound to sig. Unknown signals are ignored.
func (s *Session) HandleSignal(ctx context.Context, sig Signal) {
	s.mu.Lock()
	h := s.handlers[sig]
	s.mu.Unlock()

	if h == nil {
		slog.Debug("signal_ignored", "signal", string(sig))
		return
	}
	h(ctx, s)
}

// Bind replaces the handler for sig. A nil handler removes the binding.
func (s *Session) Bind(sig Signal, h SignalHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h == nil {
		delete(s.handlers, sig)
		return
	}
	s.handlers[sig] = h
}

func handleOnline(ctx context.Context, s *Session) {
	s.SetConnected(true)
	s.notify(KindSuccess, NoticeConnectionRestore)
	s.CheckHealth(ctx)
}

func handleOffline(_ context.Context, s *Session) {
	s.SetConnected(false)
	s.notify(KindError, NoticeConnectionLost)
}

// SetConnected overrides the connection status.
func (s *Session) SetConnected(connected bool) {
	s.mu.Lock()
	changed := s.connected != connected
	s.connected = connected
	s.mu.Unlock()
	if changed {
		slog.Info("connection_changed", "connected", connected, "source", "signal")
	}
}

// Notify raises a notification through the session's notifier.
func (s *Session) Notify(kind Kind, text string) {
	s.notify(kind, text)
}

func (s *Session) notify(kind Kind, text string) {
	s.notifier.Notify(Notification{
		ID:        s.newID(),
		Kind:      kind,
		Text:      text,
		CreatedAt: s.now(),
	})
}

// Messages returns a copy of the transcript, oldest first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of transcript entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Connected reports the last known connection status.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Pending returns the in-flight request, if any.
func (s *Session) Pending() (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Pending{}, false
	}
	return *s.pending, true
}

// LastBotMessage returns the most recent bot message.
func (s *Session) LastBotMessage() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleBot {
			return s.messages[i], true
		}
	}
	return Message{}, false
}
