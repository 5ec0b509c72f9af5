package chat

import (
	"sync"
	"time"
)

// Defaults for the hidden developer-panel gesture.
const (
	SecretThreshold = 5
	SecretWindow    = 2 * time.Second
)

// SecretCounter counts repeated presses and fires once Threshold presses
// arrive with no gap longer than Window between them. The count resets
// after firing and after an idle gap.
type SecretCounter struct {
	Threshold int
	Window    time.Duration

	mu    sync.Mutex
	count int
	last  time.Time
}

// NewSecretCounter returns a counter with the default threshold and window.
func NewSecretCounter() *SecretCounter {
	return &SecretCounter{Threshold: SecretThreshold, Window: SecretWindow}
}

// Press records a press at now and reports whether it completed the gesture.
func (c *SecretCounter) Press(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.count > 0 && now.Sub(c.last) >= c.Window {
		c.count = 0
	}
	c.count++
	c.last = now

	if c.count >= c.Threshold {
		c.count = 0
		return true
	}
	return false
}

// Count returns the presses seen so far, accounting for expiry at now.
func (c *SecretCounter) Count(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count > 0 && now.Sub(c.last) >= c.Window {
		return 0
	}
	return c.count
}
