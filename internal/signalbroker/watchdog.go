package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/dftbatch/internal/ctxlog"
)

// Watch monitors the signal channel and handles signals.
// The first signal of a type is forwarded to running commands by the batch
// engine; the second signal of the same type cancels the context, which
// forcefully terminates any running process.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})
	for sig := range sigCh {
		if _, ok := sigMap[sig]; ok {
			ctxlog.Info(ctx, "watchdog", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, no-op", "signal", sig.String())

		sigMap[sig] = struct{}{}
	}
}
