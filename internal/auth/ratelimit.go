package auth

import (
	"sync"
	"time"
)

// RateLimiter provides rate limiting for login attempts, keyed by the
// login email. Process-local; counts are not shared across instances.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	// Configuration
	maxAttempts int
	window      time.Duration
}

type attemptInfo struct {
	count    int
	firstTry time.Time
}

// NewRateLimiter creates a new rate limiter
// maxAttempts: max login attempts within the window
// window: time window for counting attempts
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string]*attemptInfo),
		maxAttempts: maxAttempts,
		window:      window,
	}
	// Start cleanup goroutine
	go rl.cleanup()
	return rl
}

// DefaultRateLimiter creates a rate limiter with the login defaults:
// 10 attempts per 15 minutes.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(10, 15*time.Minute)
}

// Allow records an attempt for the key and reports whether it is within
// budget. The window is anchored to the first attempt; once it elapses the
// next attempt starts a fresh window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	info, exists := rl.attempts[key]

	if !exists {
		// First attempt
		rl.attempts[key] = &attemptInfo{
			count:    1,
			firstTry: now,
		}
		return true
	}

	// Check if window expired
	if now.Sub(info.firstTry) > rl.window {
		// Window expired, reset
		info.count = 1
		info.firstTry = now
		return true
	}

	// Within window
	info.count++
	return info.count <= rl.maxAttempts
}

// Reset clears the attempt count for a key, called on successful login
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, key)
}

// RemainingAttempts returns the attempts left for a key within the
// current window
func (rl *RateLimiter) RemainingAttempts(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.attempts[key]
	if !exists {
		return rl.maxAttempts
	}

	if time.Since(info.firstTry) > rl.window {
		return rl.maxAttempts
	}

	remaining := rl.maxAttempts - info.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup removes expired entries periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, info := range rl.attempts {
			if now.Sub(info.firstTry) > rl.window {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}
