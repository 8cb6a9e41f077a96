package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/edgard/saansbot/internal/database"
)

const summaryWindow = 24 * time.Hour

// newJournalPruneTask deletes relay events older than database.retention.
func newJournalPruneTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", JournalPruneTask)

	return func(ctx context.Context) error {
		retention := deps.Config.Database.Retention
		if retention <= 0 {
			log.WarnContext(ctx, "Non-positive journal retention, skipping prune", "retention", retention)
			return nil
		}

		cutoff := time.Now().UTC().Add(-retention)
		deleted, err := deps.Store.PruneRelayEventsBefore(ctx, cutoff)
		if err != nil {
			log.ErrorContext(ctx, "Journal prune failed", "error", err, "cutoff", cutoff)
			return fmt.Errorf("journal prune failed: %w", err)
		}

		log.InfoContext(ctx, "Journal prune completed", "deleted", deleted, "retention", retention)
		return nil
	}
}

// newJournalSummaryTask logs how many messages ended in each outcome over the last day.
func newJournalSummaryTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", JournalSummaryTask)

	return func(ctx context.Context) error {
		since := time.Now().UTC().Add(-summaryWindow)
		counts, err := deps.Store.CountOutcomesSince(ctx, since)
		if err != nil {
			log.ErrorContext(ctx, "Journal summary failed", "error", err)
			return fmt.Errorf("journal summary failed: %w", err)
		}

		total := 0
		for _, n := range counts {
			total += n
		}

		log.InfoContext(ctx, "Relay summary",
			"window", summaryWindow,
			"total", total,
			database.OutcomeGreeting, counts[database.OutcomeGreeting],
			database.OutcomeReply, counts[database.OutcomeReply],
			database.OutcomeEmpty, counts[database.OutcomeEmpty],
			database.OutcomeError, counts[database.OutcomeError],
		)
		return nil
	}
}
