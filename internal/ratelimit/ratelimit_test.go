package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer_BurstThenSpacing(t *testing.T) {
	p := New(10, 1) // 10 calls per second, burst of 1

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// The burst token makes the first query immediate.
	start := time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// The second query is spaced ~100ms behind it.
	start = time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestPacer_WaitContextCanceled(t *testing.T) {
	p := New(0.1, 1) // One call per 10 seconds

	// Consume the burst token.
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("burst Wait() failed: %v", err)
	}

	// A caller that cannot wait out the refill gives up cleanly.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := p.Wait(ctx); err == nil {
		t.Error("Wait() should fail when context is canceled")
	}
}
