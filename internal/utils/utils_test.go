package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeTimer struct {
	requested time.Duration
	fired     chan time.Time
	stopped   bool
}

func stubTimer(t *testing.T, fire bool) *fakeTimer {
	t.Helper()

	original := newTimer
	t.Cleanup(func() { newTimer = original })

	fake := &fakeTimer{fired: make(chan time.Time, 1)}
	newTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
		fake.requested = d
		if fire {
			fake.fired <- time.Now()
		}
		return fake.fired, func() bool {
			fake.stopped = true
			return !fire
		}
	}

	return fake
}

func TestWaitFor(t *testing.T) {
	timer := stubTimer(t, true)

	if err := WaitFor(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timer.requested != 3*time.Second {
		t.Fatalf("expected to wait 3s, waited %v", timer.requested)
	}

	timer.requested = 0
	if err := WaitFor(context.Background(), 0); err != nil || timer.requested != 0 {
		t.Fatalf("expected no wait for zero duration, err=%v waited=%v", err, timer.requested)
	}
}

func TestWaitForCancelledStopsTimer(t *testing.T) {
	timer := stubTimer(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	if !timer.stopped {
		t.Fatal("expected the timer to be stopped after cancellation")
	}
}

func TestWaitForRealTimer(t *testing.T) {
	start := time.Now()
	if err := WaitFor(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("returned after %v", elapsed)
	}
}
