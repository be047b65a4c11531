package web

import (
	"sync"
	"time"
)

// RateLimiter implements per-IP rate limiting with a sliding one-minute
// window, applied to chat messages from web UI clients.
type RateLimiter struct {
	limits            map[string][]int64
	maxRequestsPerMin int
	mu                sync.Mutex
	stopCleanup       chan struct{}
}

// NewRateLimiter creates a rate limiter allowing maxRequestsPerMinute
// messages per client IP.
func NewRateLimiter(maxRequestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		limits:            make(map[string][]int64),
		maxRequestsPerMin: maxRequestsPerMinute,
		stopCleanup:       make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether a message from the given IP is within the limit,
// recording it when allowed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UnixMilli()
	valid := rl.limits[ip][:0]
	for _, ts := range rl.limits[ip] {
		if now-ts < 60_000 {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.maxRequestsPerMin {
		rl.limits[ip] = valid
		return false
	}

	rl.limits[ip] = append(valid, now)
	return true
}

// RetryAfter returns the seconds until the oldest recorded message for the
// IP leaves the window.
func (rl *RateLimiter) RetryAfter(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	times := rl.limits[ip]
	if len(times) == 0 {
		return 0
	}

	remaining := 60_000 - (time.Now().UnixMilli() - times[0])
	if remaining < 0 {
		return 0
	}
	return int((remaining + 999) / 1000)
}

// Stop halts the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCleanup)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UnixMilli()
	for ip, times := range rl.limits {
		valid := times[:0]
		for _, ts := range times {
			if now-ts < 60_000 {
				valid = append(valid, ts)
			}
		}
		if len(valid) == 0 {
			delete(rl.limits, ip)
		} else {
			rl.limits[ip] = valid
		}
	}
}
