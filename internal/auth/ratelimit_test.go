package auth

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_Budget(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("a@x.com") {
			t.Fatalf("attempt %d denied, want allowed", i+1)
		}
	}
	if rl.Allow("a@x.com") {
		t.Fatalf("attempt 4 allowed, want denied")
	}
	// Still denied once over budget
	if rl.Allow("a@x.com") {
		t.Fatalf("attempt 5 allowed, want denied")
	}
}

func TestRateLimiter_KeysIndependent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("a@x.com") {
		t.Fatalf("first attempt for key a denied")
	}
	if !rl.Allow("b@x.com") {
		t.Fatalf("first attempt for key b denied")
	}
	if rl.Allow("a@x.com") {
		t.Fatalf("second attempt for key a allowed, want denied")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, time.Minute)

	rl.Allow("a@x.com")
	rl.Allow("a@x.com")
	if rl.Allow("a@x.com") {
		t.Fatalf("over-budget attempt allowed")
	}

	rl.Reset("a@x.com")
	if !rl.Allow("a@x.com") {
		t.Fatalf("attempt after reset denied, want allowed")
	}
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow("a@x.com") {
		t.Fatalf("first attempt denied")
	}
	if rl.Allow("a@x.com") {
		t.Fatalf("second attempt within window allowed")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("a@x.com") {
		t.Fatalf("attempt after window expiry denied, want allowed")
	}
}

func TestRateLimiter_RemainingAttempts(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Minute)

	if got := rl.RemainingAttempts("a@x.com"); got != 5 {
		t.Fatalf("remaining before any attempt: got %d want 5", got)
	}
	rl.Allow("a@x.com")
	rl.Allow("a@x.com")
	if got := rl.RemainingAttempts("a@x.com"); got != 3 {
		t.Fatalf("remaining after two attempts: got %d want 3", got)
	}
}

func TestRateLimiter_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("a@x.com") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Fatalf("allowed count under concurrency: got %d want 50", allowed)
	}
}
