package http

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window per-key request counter. Precision at
// the window boundary is traded for O(1) bookkeeping per request.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	started time.Time
	counts  map[string]int
	now     func() time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		started: time.Now(),
		counts:  make(map[string]int),
		now:     time.Now,
	}
}

// Allow reports whether a request from key fits into the current window.
func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.started) >= rl.window {
		rl.started = now
		rl.counts = make(map[string]int)
	}

	if rl.counts[key] >= rl.limit {
		return false
	}
	rl.counts[key]++
	return true
}
