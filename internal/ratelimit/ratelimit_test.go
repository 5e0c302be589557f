package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		requestsPerSecond float64
		wantLimit         float64
	}{
		{name: "unlimited_zero", requestsPerSecond: 0, wantLimit: 0},
		{name: "unlimited_negative", requestsPerSecond: -1, wantLimit: 0},
		{name: "one_per_second", requestsPerSecond: 1, wantLimit: 1},
		{name: "fractional", requestsPerSecond: 0.5, wantLimit: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := New(tt.requestsPerSecond)
			if got := l.Limit(); got != tt.wantLimit {
				t.Errorf("Limit() = %f, want %f", got, tt.wantLimit)
			}
		})
	}
}

func TestLimiterAllow(t *testing.T) {
	t.Parallel()

	unlimited := New(0)
	for i := range 10 {
		if !unlimited.Allow() {
			t.Errorf("unlimited limiter denied request %d", i)
		}
	}

	limited := New(1)
	if !limited.Allow() {
		t.Error("first request should be allowed")
	}
	if limited.Allow() {
		t.Error("second immediate request should be denied")
	}
}

func TestLimiterWaitCancellation(t *testing.T) {
	t.Parallel()

	l := New(1)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("expected context cancellation error")
	}
}
