// Package ratelimit throttles outbound provider calls with a token bucket.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows a fixed number of calls per minute with a burst of the
// same size.
type Limiter struct {
	limiter   *rate.Limiter
	perMinute int
}

// PerMinute returns a limiter for n calls per minute. n <= 0 disables
// throttling.
func PerMinute(n int) *Limiter {
	if n <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &Limiter{
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n),
		perMinute: n,
	}
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Remaining reports the whole tokens currently available.
func (l *Limiter) Remaining() int {
	if l.perMinute == 0 {
		return -1
	}
	return int(l.limiter.Tokens())
}

// PerMinuteLimit is the configured rate; 0 means unlimited.
func (l *Limiter) PerMinuteLimit() int {
	return l.perMinute
}
