// Package resilience provides the bounded retry policy used for remote calls.
package resilience

import (
	"context"
	"log/slog"
	"time"
)

// Retry configuration constants
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 1 * time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// Sleeper pauses between attempts. It must return early with ctx.Err()
// when the context is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy holds retry settings. A Multiplier of 1 (or 0) gives a fixed delay.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	Sleep       Sleeper
}

// DefaultPolicy returns three attempts with a fixed one-second pause.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Multiplier:  1,
		MaxDelay:    DefaultMaxDelay,
		Sleep:       SleepContext,
	}
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do calls fn until it succeeds or MaxAttempts is reached. fn receives the
// 1-based attempt number. Returns the last error if every attempt fails.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	p = p.withDefaults()
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		delay := p.delayFor(attempt)
		slog.Debug("retrying after error", "attempt", attempt, "max", p.MaxAttempts, "delay", delay, "error", lastErr)
		if err := p.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return lastErr
}

// delayFor returns the pause after the given failed attempt.
func (p Policy) delayFor(attempt int) time.Duration {
	delay := float64(p.Delay)
	for i := 1; i < attempt; i++ {
		delay *= p.Multiplier
	}
	if d := time.Duration(delay); d < p.MaxDelay {
		return d
	}
	return p.MaxDelay
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 1
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	if p.Sleep == nil {
		p.Sleep = SleepContext
	}
	return p
}
