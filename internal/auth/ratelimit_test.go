package auth

import (
	"testing"
	"time"
)

func newTestLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
}

func TestRateLimiter_AllowsFreshAttempts(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	allowed, _ := rl.Allow("10.0.0.1", "jane@example.com")
	if !allowed {
		t.Error("first attempt should be allowed")
	}
}

func TestRateLimiter_LocksAfterMaxFailures(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	ip, email := "10.0.0.1", "jane@example.com"

	for i := 0; i < 2; i++ {
		if locked, _ := rl.RecordFailure(ip, email); locked {
			t.Fatalf("locked out after %d failures, expected lockout at 3", i+1)
		}
	}

	locked, retryAfter := rl.RecordFailure(ip, email)
	if !locked {
		t.Fatal("expected lockout after third failure")
	}
	if retryAfter <= 0 {
		t.Error("expected positive retry-after duration")
	}

	allowed, retryAfter := rl.Allow(ip, email)
	if allowed {
		t.Error("locked combination should not be allowed")
	}
	if retryAfter <= 0 {
		t.Error("expected positive retry-after duration")
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.RecordFailure("10.0.0.1", "jane@example.com")
	}

	if allowed, _ := rl.Allow("10.0.0.2", "jane@example.com"); !allowed {
		t.Error("different IP should not share the lockout")
	}
	if allowed, _ := rl.Allow("10.0.0.1", "other@example.com"); !allowed {
		t.Error("different email should not share the lockout")
	}
}

func TestRateLimiter_SuccessClearsFailures(t *testing.T) {
	rl := newTestLimiter()
	defer rl.Stop()

	ip, email := "10.0.0.1", "jane@example.com"

	rl.RecordFailure(ip, email)
	rl.RecordFailure(ip, email)
	rl.RecordSuccess(ip, email)

	// The counter starts over after a successful login
	for i := 0; i < 2; i++ {
		if locked, _ := rl.RecordFailure(ip, email); locked {
			t.Fatalf("locked out after %d post-success failures", i+1)
		}
	}
}
