// Package shutdown runs a blocking component until it returns or the process
// is asked to stop, then gives it a bounded time to clean up.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DefaultTimeout bounds how long cleanup may take after a stop signal.
const DefaultTimeout = 5 * time.Second

// notify registers for the stop signals. Replaced in tests.
var notify = func(c chan<- os.Signal) func() {
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	return func() { signal.Stop(c) }
}

// RunWithGracefulShutdown starts runner and blocks until it returns, ctx is
// done, or SIGINT/SIGTERM arrives. In the latter two cases runner's context is
// cancelled, cleanup is called, and runner gets up to timeout to return.
// A runner ending with context.Canceled is treated as a clean stop.
func RunWithGracefulShutdown(
	ctx context.Context,
	logger *slog.Logger,
	timeout time.Duration,
	runner func(ctx context.Context) error,
	cleanup func(ctx context.Context) error,
) error {
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- runner(runCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	stop := notify(sigChan)
	defer stop()

	select {
	case err := <-runDone:
		return ignoreCanceled(err)

	case sig := <-sigChan:
		logger.Info("received signal, stopping", "signal", sig)

	case <-ctx.Done():
		logger.Info("context done, stopping", "cause", context.Cause(ctx))
	}

	runCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if cleanup != nil {
		if err := cleanup(shutdownCtx); err != nil {
			logger.Error("cleanup failed", "error", err)
		}
	}

	select {
	case err := <-runDone:
		logger.Info("shutdown complete")
		return ignoreCanceled(err)
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded", "timeout", timeout)
		return nil
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
