// Package netwatch reports when the host gains or loses a usable network
// interface.
package netwatch

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// Event is a connectivity transition.
type Event struct {
	Online bool
	At     time.Time
}

// ProbeFunc reports whether the host currently looks online.
type ProbeFunc func() bool

// Monitor polls a probe and emits an Event only when its answer changes.
type Monitor struct {
	interval time.Duration
	probe    ProbeFunc
	now      func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithProbe replaces the interface probe.
func WithProbe(p ProbeFunc) Option {
	return func(m *Monitor) {
		m.probe = p
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a monitor that polls every interval.
func New(interval time.Duration, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		probe:    HasActiveInterface,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run probes once to learn the starting state, then polls until ctx is done.
// The starting state is not emitted. The returned channel is closed on exit.
// A non-positive interval yields a channel that only closes.
func (m *Monitor) Run(ctx context.Context) <-chan Event {
	events := make(chan Event, 1)
	if m.interval <= 0 {
		go func() {
			<-ctx.Done()
			close(events)
		}()
		return events
	}

	online := m.probe()
	slog.Debug("netwatch_started", "online", online, "interval", m.interval)

	go func() {
		defer close(events)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := m.probe()
				if now == online {
					continue
				}
				online = now
				slog.Info("netwatch_transition", "online", online)
				select {
				case events <- Event{Online: online, At: m.now()}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return events
}

// HasActiveInterface reports whether any non-loopback interface is up and
// has an address.
func HasActiveInterface() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		slog.Debug("netwatch_interfaces_failed", "error", err.Error())
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}
	return false
}
