// Package retry runs an operation a bounded number of times with a linearly
// increasing pause between attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// ErrInvalidPolicy is returned when a Policy cannot run a single attempt.
var ErrInvalidPolicy = errors.New("retry: max attempts must be positive")

// Policy bounds a retry loop. The pause after failed attempt n is BaseDelay*n.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy is three attempts, one second apart and then two.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Operation is one attempt. attempt starts at 1.
type Operation func(ctx context.Context, attempt int) error

// OnRetryFunc is called after a failed attempt that will be retried.
type OnRetryFunc func(attempt int, err error, delay time.Duration)

type settings struct {
	timer   backoff.Timer
	onRetry OnRetryFunc
}

// Option tunes a single Do call.
type Option func(*settings)

// WithTimer replaces the wall-clock timer used between attempts.
func WithTimer(t backoff.Timer) Option {
	return func(s *settings) {
		s.timer = t
	}
}

// WithOnRetry registers a hook that runs before each pause.
func WithOnRetry(fn OnRetryFunc) Option {
	return func(s *settings) {
		s.onRetry = fn
	}
}

// Permanent marks err as not worth retrying. Do returns the wrapped error
// immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a Permanent error, the policy runs
// out of attempts, or ctx is done. The error of the final attempt is
// returned as is, unless ctx ended the loop.
func Do(ctx context.Context, p Policy, op Operation, opts ...Option) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidPolicy
	}

	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	attempt := 0
	operation := func() error {
		attempt++
		return op(ctx, attempt)
	}

	var notify backoff.Notify
	if s.onRetry != nil {
		notify = func(err error, delay time.Duration) {
			s.onRetry(attempt, err, delay)
		}
	}

	b := backoff.WithContext(NewLinearBackOff(p), ctx)
	err := backoff.RetryNotifyWithTimer(operation, b, notify, s.timer)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// LinearBackOff implements backoff.BackOff with delay = base * n and a hard
// attempt limit.
type LinearBackOff struct {
	base        time.Duration
	maxAttempts int
	failures    int
}

// NewLinearBackOff builds the backoff for p.
func NewLinearBackOff(p Policy) *LinearBackOff {
	return &LinearBackOff{base: p.BaseDelay, maxAttempts: p.MaxAttempts}
}

// NextBackOff returns the pause after the next failure, or backoff.Stop once
// the attempt limit is reached.
func (b *LinearBackOff) NextBackOff() time.Duration {
	b.failures++
	if b.failures >= b.maxAttempts {
		return backoff.Stop
	}
	return b.base * time.Duration(b.failures)
}

// Reset clears the failure count.
func (b *LinearBackOff) Reset() {
	b.failures = 0
}
