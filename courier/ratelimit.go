package courier

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ErrRateLimited is the cause attached to a transport failure when a call
// is rejected by the client-side rate limiter in fail-fast mode.
var ErrRateLimited = errors.New("courier: rate limit exceeded")

// RateLimitConfig configures optional client-side rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64

	// Burst is the number of requests allowed to exceed the rate briefly.
	Burst int

	// WaitOnLimit makes calls wait for a token (respecting the context
	// deadline) instead of failing immediately with ErrRateLimited.
	WaitOnLimit bool
}

// DefaultRateLimitConfig returns 100 req/s with a burst of 10, waiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             10,
		WaitOnLimit:       true,
	}
}

// rateLimiter gates calls through a token bucket before any request
// construction happens.
type rateLimiter struct {
	limiter *rate.Limiter
	wait    bool
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		wait:    cfg.WaitOnLimit,
	}
}

func (r *rateLimiter) allow(ctx context.Context) error {
	if r.wait {
		return r.limiter.Wait(ctx)
	}
	if !r.limiter.Allow() {
		return ErrRateLimited
	}
	return nil
}
