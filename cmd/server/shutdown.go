package main

import (
	"context"
	"log/slog"

	"github.com/JonMunkholm/usersvc/internal/core"
)

type httpServer interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops the listener first so no new bulk or seed request can be
// admitted, then waits for bulk work still holding a limiter slot. Both
// steps share ctx's deadline.
func shutdown(ctx context.Context, srv httpServer, limiter *core.BulkLimiter) error {
	err := srv.Shutdown(ctx)
	if err != nil {
		slog.Error("shutdown error", "error", err)
	}

	if status := limiter.Status(); status.Active > 0 {
		slog.Info("waiting for bulk operations to complete", "active", status.Active)
		if drainErr := limiter.WaitForDrain(ctx); drainErr != nil {
			slog.Warn("bulk operations did not complete in time", "error", drainErr)
			if err == nil {
				err = drainErr
			}
		} else {
			slog.Info("all bulk operations completed")
		}
	}

	return err
}
