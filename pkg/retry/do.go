// Package retry re-runs an operation with backoff until it succeeds, fails
// permanently or the context ends.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

type Func func(ctx context.Context) error

// RetryIf reports whether err is worth another attempt.
type RetryIf func(error) bool

// Backoff returns the wait before the retry following attempt (0-based).
type Backoff interface {
	Next(attempt int) time.Duration
}

type fixedBackoff time.Duration

func (b fixedBackoff) Next(int) time.Duration { return time.Duration(b) }

func Fixed(interval time.Duration) Backoff {
	return fixedBackoff(interval)
}

type exponentialBackoff struct {
	base time.Duration
	max  time.Duration
}

func (b exponentialBackoff) Next(attempt int) time.Duration {
	d := b.base << attempt
	if d <= 0 || (b.max > 0 && d > b.max) {
		return b.max
	}
	return d
}

// Exponential doubles base on every attempt, capped at max when max > 0.
func Exponential(base, max time.Duration) Backoff {
	return exponentialBackoff{base: base, max: max}
}

// Jitter spreads waits of concurrent callers.
type Jitter func(time.Duration) time.Duration

func NoJitter(d time.Duration) time.Duration { return d }

// HalfJitter waits between d/2 and d.
func HalfJitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	half := d / 2
	return half + rand.N(d-half)
}

type config struct {
	maxAttempts int
	backoff     Backoff
	jitter      Jitter
	retryIf     RetryIf
}

type Option func(*config)

// WithMaxAttempts counts the first call too.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

func WithJitter(j Jitter) Option {
	return func(c *config) {
		if j != nil {
			c.jitter = j
		}
	}
}

func WithRetryIf(fn RetryIf) Option {
	return func(c *config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so Do returns it without retrying. Do unwraps it
// before returning.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do calls fn until it succeeds or attempts run out, returning the last error.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{
		maxAttempts: 3,
		backoff:     Fixed(time.Second),
		jitter:      NoJitter,
		retryIf:     IsRetryable,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
		if !cfg.retryIf(err) || attempt == cfg.maxAttempts-1 {
			break
		}

		if wait := cfg.jitter(cfg.backoff.Next(attempt)); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			}
		}
	}
	return lastErr
}

// IsRetryable retries everything except context cancellation and expiry.
func IsRetryable(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
