package metadata

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter spaces outbound catalog requests
type RateLimiter struct {
	limiter *rate.Limiter
	name    string
}

// NewRateLimiter allows requestsPerSecond requests with an equal burst.
// A non-positive rate returns nil, which leaves requests unthrottled.
func NewRateLimiter(name string, requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		name:    name,
	}
}

// Wait blocks until a request may proceed or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", r.name, err)
	}
	return nil
}
