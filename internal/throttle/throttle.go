// Package throttle spaces outbound generative-service calls so that all
// workers together stay under a configured calls-per-minute budget.
package throttle

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between calls. A single instance is
// shared by every worker; each call attempt, retries included, must Acquire
// before contacting the service.
type Limiter struct {
	lim *rate.Limiter

	mu   sync.Mutex
	last time.Time
}

// New creates a Limiter for the given calls-per-minute ceiling. A non-positive
// ceiling disables throttling.
func New(callsPerMinute int) *Limiter {
	if callsPerMinute <= 0 {
		return &Limiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}

	interval := time.Minute / time.Duration(callsPerMinute)
	return &Limiter{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire blocks until the shared interval clock permits the next call or the
// context is cancelled. On success the call timestamp is recorded.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.lim.Wait(ctx); err != nil {
		return err
	}

	l.mu.Lock()
	l.last = time.Now()
	l.mu.Unlock()
	return nil
}

// LastCall returns the timestamp of the most recent successful Acquire.
func (l *Limiter) LastCall() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
