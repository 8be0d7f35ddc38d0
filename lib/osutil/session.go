package osutil

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext derives a context that is cancelled on the first SIGINT or
// SIGTERM. After that the signals go back to their default handlers, so a
// second Ctrl+C kills a run that is stuck shutting down.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
