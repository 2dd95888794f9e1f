package middleware

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketExhaustsAndRefills(t *testing.T) {
	tb := NewTokenBucket(3, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !tb.Allow(ctx) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if tb.Allow(ctx) {
		t.Fatalf("bucket should be empty")
	}

	// 100 tokens/s means a short wait refills at least one
	time.Sleep(50 * time.Millisecond)
	if !tb.Allow(ctx) {
		t.Fatalf("expected refill after wait")
	}
}

func TestTokenBucketCapsAtCapacity(t *testing.T) {
	tb := NewTokenBucket(2, 1000)
	ctx := context.Background()

	time.Sleep(20 * time.Millisecond)

	// despite the refill burst only capacity tokens are available
	if !tb.Allow(ctx) || !tb.Allow(ctx) {
		t.Fatalf("expected two tokens")
	}
	if tb.Allow(ctx) {
		t.Fatalf("expected bucket capped at capacity")
	}
}

func TestSlidingWindowLimitsWithinWindow(t *testing.T) {
	sw := NewSlidingWindow(100*time.Millisecond, 2)
	ctx := context.Background()

	if !sw.Allow(ctx) || !sw.Allow(ctx) {
		t.Fatalf("first two requests should pass")
	}
	if sw.Allow(ctx) {
		t.Fatalf("third request inside the window should be rejected")
	}

	time.Sleep(120 * time.Millisecond)
	if !sw.Allow(ctx) {
		t.Fatalf("request after the window elapsed should pass")
	}
}
