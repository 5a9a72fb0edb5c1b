package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(t.Context(), &out, "Generating iconfont...")
	s.Start()

	deadline := time.Now().Add(time.Second)
	for !strings.Contains(out.String(), "Generating iconfont...") {
		if time.Now().After(deadline) {
			t.Fatalf("spinner never drew its message, got %q", out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
	if !strings.HasSuffix(out.String(), "\r") {
		t.Errorf("Stop should clear the line, got %q", out.String())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(t.Context(), &out, "x")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(t.Context(), &out, "x")
	s.Stop()
	if out.String() != "" {
		t.Errorf("a spinner that never drew should write nothing, got %q", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	var out syncBuffer
	s := newSpinnerTo(ctx, &out, "x")
	s.Start()

	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after the parent context was cancelled")
	}
}

func TestSpinnerShowsElapsedTime(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(t.Context(), &out, "slow")
	s.start = time.Now().Add(-2 * time.Second)
	s.draw(spinnerFrames[0])

	if !strings.Contains(out.String(), "slow 2s") {
		t.Errorf("draw() = %q, want the elapsed time", out.String())
	}
}
