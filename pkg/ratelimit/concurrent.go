package ratelimit

import (
	"sync/atomic"
)

// ConcurrentLimiter limits the number of simultaneous in-flight requests.
//
// This implements a counting semaphore using atomic operations for
// lock-free performance. It prevents a single client from saturating a
// Prometheus server with parallel queries.
//
// # Thread Safety
//
// ConcurrentLimiter is lock-free and thread-safe using atomic operations.
type ConcurrentLimiter struct {
	limit   int64 // Maximum concurrent requests
	current int64 // Current number of in-flight requests
}

// NewConcurrentLimiter creates a new concurrent request limiter.
//
// Example:
//
//	limiter := NewConcurrentLimiter(10) // Max 10 concurrent requests
//	if limiter.Acquire() {
//	    defer limiter.Release()
//	    // Send request
//	}
func NewConcurrentLimiter(limit int) *ConcurrentLimiter {
	return &ConcurrentLimiter{
		limit:   int64(limit),
		current: 0,
	}
}

// Acquire attempts to acquire a concurrency slot.
// Returns true if acquired, false if limit reached.
//
// If this returns true, the caller MUST call Release() when done.
func (cl *ConcurrentLimiter) Acquire() bool {
	current := atomic.AddInt64(&cl.current, 1)

	if current > cl.limit {
		atomic.AddInt64(&cl.current, -1)
		return false
	}

	return true
}

// Release releases a concurrency slot.
// This MUST be called after a successful Acquire().
func (cl *ConcurrentLimiter) Release() {
	atomic.AddInt64(&cl.current, -1)
}

// Current returns the current number of in-flight requests.
func (cl *ConcurrentLimiter) Current() int64 {
	return atomic.LoadInt64(&cl.current)
}

// Limit returns the configured concurrency limit.
func (cl *ConcurrentLimiter) Limit() int64 {
	return atomic.LoadInt64(&cl.limit)
}

// Remaining returns the number of available concurrency slots.
func (cl *ConcurrentLimiter) Remaining() int64 {
	current := atomic.LoadInt64(&cl.current)
	limit := atomic.LoadInt64(&cl.limit)

	remaining := limit - current
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset resets the concurrent request count to zero.
// This should only be used in testing or error recovery scenarios.
func (cl *ConcurrentLimiter) Reset() {
	atomic.StoreInt64(&cl.current, 0)
}
