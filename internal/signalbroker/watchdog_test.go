package signalbroker

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The watchdog contract: first signal of a type is a no-op, second cancels.
func TestWatchSecondSignalOfType(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := New(ctx)
	done := make(chan struct{})

	go func() {
		Watch(ctx, sigCh, cancel)
		close(done)
	}()

	sigCh <- syscall.SIGTERM
	sigCh <- syscall.SIGTERM

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not exit after second signal")
	}

	assert.Error(t, ctx.Err())
}

func TestWatchFirstSignalNoCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := New(ctx)

	go Watch(ctx, sigCh, cancel)

	sigCh <- syscall.SIGINT

	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, ctx.Err())

	// Unblock the watchdog goroutine.
	sigCh <- syscall.SIGINT
}
