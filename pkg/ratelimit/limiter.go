package ratelimit

import (
	"context"
	"time"
)

// Limiter coordinates client-side rate limiting for query traffic.
//
// It combines a token bucket for the average query rate with a
// concurrency limiter for in-flight requests. Only limits configured
// with non-zero values are enforced.
//
// Rate limits are waited out (context permitting); concurrency limits
// reject immediately so callers get fast feedback under load.
type Limiter struct {
	rate       *TokenBucket
	concurrent *ConcurrentLimiter

	config Config
}

// NewLimiter creates a new rate limiter with the given configuration.
//
// Only non-zero limits in the config are enforced. Zero values mean no limit.
//
// Example:
//
//	limiter := NewLimiter(Config{
//	    QueriesPerSecond: 10,
//	    Burst:            20,
//	    MaxConcurrent:    5,
//	})
func NewLimiter(config Config) *Limiter {
	limiter := &Limiter{
		config: config,
	}

	if config.QueriesPerSecond > 0 {
		burst := int64(config.Burst)
		if burst <= 0 {
			// Allow burst up to 2x the per-second rate
			burst = int64(config.QueriesPerSecond * 2)
		}
		if burst < 1 {
			burst = 1
		}
		limiter.rate = NewTokenBucket(burst, config.QueriesPerSecond)
	}

	if config.MaxConcurrent > 0 {
		limiter.concurrent = NewConcurrentLimiter(config.MaxConcurrent)
	}

	return limiter
}

// Acquire blocks until the rate limit admits a request, then claims a
// concurrency slot. It returns a release function that MUST be called
// when the request completes.
//
// Waiting is bounded by the context: if the context is cancelled before
// a rate token becomes available, the context error is returned. When
// the concurrency limit is reached a *LimitError is returned immediately
// rather than queuing the request.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	if l == nil {
		return func() {}, nil
	}

	if l.rate != nil {
		for {
			if l.rate.Take(1) {
				break
			}

			wait := l.rate.TimeUntilAvailable(1)
			if wait <= 0 {
				continue
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	if l.concurrent != nil {
		if !l.concurrent.Acquire() {
			return nil, &LimitError{Result: &CheckResult{
				Allowed:    false,
				Reason:     "concurrent request limit exceeded",
				Limit:      l.concurrent.Limit(),
				Remaining:  l.concurrent.Remaining(),
				RetryAfter: time.Second,
			}}
		}

		return l.concurrent.Release, nil
	}

	return func() {}, nil
}

// ConcurrentStatus returns the current concurrency usage.
func (l *Limiter) ConcurrentStatus() *CheckResult {
	if l == nil || l.concurrent == nil {
		return &CheckResult{Allowed: true}
	}

	return &CheckResult{
		Allowed:   true,
		Limit:     l.concurrent.Limit(),
		Remaining: l.concurrent.Remaining(),
	}
}

// Reset resets all limits. This is primarily for testing.
func (l *Limiter) Reset() {
	if l.rate != nil {
		l.rate.Reset()
	}
	if l.concurrent != nil {
		l.concurrent.Reset()
	}
}
