// Package ratelimit provides client-side rate limiting for query traffic.
//
// # Overview
//
// The ratelimit package implements two limiting strategies:
//
//   - Token Bucket: average query rate limiting with constant refill rate
//   - Concurrent Limiter: semaphore-based in-flight request limiting
//
// Both are combined by the Limiter, which the client consults before each
// request to avoid overwhelming a shared Prometheus server.
//
// # Token Bucket Algorithm
//
// The token bucket algorithm allows bursts up to the bucket capacity while
// maintaining an average rate over time:
//
//	bucket := ratelimit.NewTokenBucket(20, 10) // 20 capacity, 10 refill/sec
//	if bucket.Take(1) {
//	    // Request allowed
//	} else {
//	    // Rate limit exceeded
//	}
//
// # Concurrent Limiter
//
// The concurrent limiter enforces maximum simultaneous requests:
//
//	limiter := ratelimit.NewConcurrentLimiter(10) // Max 10 concurrent
//	if limiter.Acquire() {
//	    defer limiter.Release()
//	    // Send request
//	}
//
// # Combined Limiter
//
// The Limiter combines both strategies behind a context-aware Acquire:
//
//	limiter := ratelimit.NewLimiter(ratelimit.Config{
//	    QueriesPerSecond: 10,
//	    MaxConcurrent:    5,
//	})
//
//	release, err := limiter.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// # Thread Safety
//
// All rate limiters are thread-safe and use fine-grained locking to minimize
// contention under high load.
package ratelimit
