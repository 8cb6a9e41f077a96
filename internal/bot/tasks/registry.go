package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature of every scheduled task. Tasks must
// respect ctx cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys of scheduler.tasks in the configuration.
const (
	SQLMaintenanceTask = "sql_maintenance"
	JournalPruneTask   = "journal_prune"
	JournalSummaryTask = "journal_summary"
)

// RegisterAllTasks returns the scheduled tasks keyed by name. Every task works
// on the relay journal, so none are registered when it is disabled.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	if deps.Store == nil {
		deps.Logger.Info("Relay journal disabled, no scheduled tasks registered")
		return tasks
	}

	tasks[SQLMaintenanceTask] = newSQLMaintenanceTask(deps)
	tasks[JournalPruneTask] = newJournalPruneTask(deps)
	tasks[JournalSummaryTask] = newJournalSummaryTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
