package util

import (
	"context"
	"sync"
	"time"
)

// RateLimiter paces callers to a fixed request rate. The first Wait returns
// immediately; each later Wait is held until one interval after the previous
// slot, so bursts spread out evenly.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewRateLimiter creates a limiter allowing perMinute operations per minute.
// A non-positive perMinute disables pacing.
func NewRateLimiter(perMinute int) *RateLimiter {
	var interval time.Duration
	if perMinute > 0 {
		interval = time.Minute / time.Duration(perMinute)
	}
	return &RateLimiter{interval: interval}
}

// Wait blocks until the caller's slot arrives or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	if rl.next.Before(now) {
		rl.next = now
	}
	wait := rl.next.Sub(now)
	rl.next = rl.next.Add(rl.interval)
	rl.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
