// Package ratelimit paces outbound API requests.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles request starts to a configured rate. A burst of one
// means the first request proceeds immediately and later ones wait their
// turn.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerSecond request starts. Zero or
// negative disables throttling.
func New(requestsPerSecond float64) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1)}
}

// Wait blocks until the next request may start or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may start right now, without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured rate, 0 meaning unlimited.
func (l *Limiter) Limit() float64 {
	limit := l.limiter.Limit()
	if limit == rate.Inf {
		return 0
	}
	return float64(limit)
}
