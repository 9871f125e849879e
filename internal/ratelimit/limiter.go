// Package ratelimit spaces out upstream requests per logical source name.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttler blocks until a request under key may proceed.
type Throttler interface {
	Throttle(ctx context.Context, key string) error
}

// Limiter enforces a minimum spacing between requests sharing a key.
// Each key gets its own token bucket with a burst of 1, so two requests under one key never
// fire closer together than the minimum interval, even from concurrent goroutines.
// Different keys do not wait on each other.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// New creates a Limiter allowing at most rps requests per second per key.
// A non-positive rps falls back to one request per second.
func New(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		interval: time.Duration(float64(time.Second) / rps),
	}
}

// Interval returns the minimum spacing enforced between two requests under one key.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Throttle waits until the minimum interval has elapsed since the last request under key.
// Returns the context error if ctx is done before the slot opens.
func (l *Limiter) Throttle(ctx context.Context, key string) error {
	return l.limiter(key).Wait(ctx)
}

func (l *Limiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[key] = limiter
	}
	return limiter
}

// Unlimited is a Throttler that never waits.
type Unlimited struct{}

// Throttle returns immediately unless ctx is already done.
func (Unlimited) Throttle(ctx context.Context, _ string) error {
	return ctx.Err()
}
