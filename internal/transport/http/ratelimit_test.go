package http

import (
	"testing"
	"time"
)

func TestRateLimiterCapsFrames(t *testing.T) {
	limiter := newRateLimiter(3, time.Hour)
	defer limiter.stop()

	for i := 0; i < 3; i++ {
		if !limiter.allow() {
			t.Fatalf("frame %d denied under the limit", i+1)
		}
	}
	if limiter.allow() {
		t.Fatal("frame over the limit was allowed")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := newRateLimiter(2, 30*time.Millisecond)
	defer limiter.stop()

	limiter.allow()
	limiter.allow()
	if limiter.allow() {
		t.Fatal("third frame in the window was allowed")
	}

	time.Sleep(50 * time.Millisecond)
	if !limiter.allow() {
		t.Fatal("frame denied after the window rolled over")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := newRateLimiter(0, time.Minute)
	defer limiter.stop()

	for i := 0; i < 100; i++ {
		if !limiter.allow() {
			t.Fatal("disabled limiter denied a frame")
		}
	}
}
