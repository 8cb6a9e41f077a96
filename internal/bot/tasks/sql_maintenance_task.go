package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask compacts the relay journal file after pruning has
// freed pages. It checks the connection first so a vanished file is reported
// as such rather than as a VACUUM failure.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", SQLMaintenanceTask, "journal", deps.Config.Database.Path)

	return func(ctx context.Context) error {
		if err := deps.Store.Ping(ctx); err != nil {
			log.WarnContext(ctx, "Relay journal unreachable, compaction skipped", "error", err)
			return fmt.Errorf("relay journal unreachable: %w", err)
		}

		began := time.Now()
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Relay journal compaction failed", "error", err, "elapsed_ms", time.Since(began).Milliseconds())
			return fmt.Errorf("compact relay journal: %w", err)
		}

		log.InfoContext(ctx, "Relay journal compacted", "elapsed_ms", time.Since(began).Milliseconds())
		return nil
	}
}
