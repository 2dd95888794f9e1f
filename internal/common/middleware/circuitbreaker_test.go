package middleware

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerTripsAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 50*time.Millisecond)
	ctx := context.Background()
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := cb.Call(ctx, func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open after %d failures, got %v", 2, cb.GetState())
	}
	if err := cb.Call(ctx, func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected fail-fast ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 20*time.Millisecond)
	ctx := context.Background()

	if err := cb.Call(ctx, func() error { return errors.New("boom") }); err == nil {
		t.Fatalf("expected failure")
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected open, got %v", cb.GetState())
	}

	time.Sleep(30 * time.Millisecond)

	// a successful probe closes the breaker
	if err := cb.Call(ctx, func() error { return nil }); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Fatalf("expected closed after successful probe, got %v", cb.GetState())
	}
	if err := cb.Call(ctx, func() error { return nil }); err != nil {
		t.Fatalf("call after recovery: %v", err)
	}
}

func TestCircuitBreakerFailedProbeReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 20*time.Millisecond)
	ctx := context.Background()
	boom := errors.New("boom")

	if err := cb.Call(ctx, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if err := cb.Call(ctx, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("probe: expected boom, got %v", err)
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("expected re-open after failed probe, got %v", cb.GetState())
	}
}
