// Package ratelimit paces outbound calls to upstream model APIs.
package ratelimit

import (
	"context"
	"math"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing requestsPerSecond with a burst of at
// least one request. A non-positive rate yields nil, which never blocks.
func NewLimiter(requestsPerSecond float64) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	burst := int(math.Ceil(requestsPerSecond))
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until limiter permits a request. A nil limiter returns at once.
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}
