package discord

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound directory calls.
type RateLimiter struct {
	limiter *rate.Limiter

	// set after a 429 from the directory
	backoffUntil time.Time
	mu           sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until the next request is allowed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	waitUntil := r.backoffUntil
	r.mu.Unlock()

	if d := time.Until(waitUntil); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff pauses all requests for d.
func (r *RateLimiter) Backoff(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until := time.Now().Add(d)
	if until.After(r.backoffUntil) {
		r.backoffUntil = until
	}
}
