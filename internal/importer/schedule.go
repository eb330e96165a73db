package importer

import (
	"context"
	"log/slog"
	"time"
)

// RunEvery calls run once immediately and then on every tick of interval
// until ctx is cancelled. A failed run is logged and the schedule continues.
func RunEvery(ctx context.Context, interval time.Duration, run func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		if err := run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("scheduled import failed", "action", "site_import", "error", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
