// Package ratelimit bounds how often a single user may run domain lifecycle
// operations, capping abuse and external-API cost.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// UserLimiter keeps one token bucket per acting user. It is never applied to
// the request-path resolver.
type UserLimiter struct {
	mu      sync.Mutex
	buckets map[int]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewUserLimiter allows perMinute operations per user with the given burst.
func NewUserLimiter(perMinute, burst int) *UserLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &UserLimiter{
		buckets: make(map[int]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
	}
}

// Allow reports whether the user may perform another lifecycle operation now.
func (l *UserLimiter) Allow(userID int) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[userID]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[userID] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow()
}
