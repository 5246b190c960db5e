package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterThrottlesPerIP(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	defer rl.Stop()

	if !rl.allow("10.0.0.1") || !rl.allow("10.0.0.1") {
		t.Fatal("expected requests within burst to pass")
	}
	if rl.allow("10.0.0.1") {
		t.Fatal("expected request over burst to be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatal("expected a different IP to have its own bucket")
	}
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	defer rl.Stop()

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")

	rl.mu.Lock()
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	rl.mu.Unlock()

	rl.evictIdle(10 * time.Minute)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Fatal("expected idle visitor to be evicted")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Fatal("expected recent visitor to be kept")
	}
}

func TestRateLimiterStopEndsCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 2)

	done := make(chan struct{})
	go func() {
		rl.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
