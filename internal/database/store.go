package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the relay journal operations. Methods accept a context for
// cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordRelayEvent inserts one relay outcome and sets its ID.
	RecordRelayEvent(ctx context.Context, event *RelayEvent) error

	// CountOutcomesSince counts events per outcome created at or after since.
	CountOutcomesSince(ctx context.Context, since time.Time) (map[string]int, error)

	// PruneRelayEventsBefore deletes events created before cutoff and returns how many were removed.
	PruneRelayEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs VACUUM and PRAGMA optimize.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) RecordRelayEvent(ctx context.Context, event *RelayEvent) error {
	if event == nil {
		return errors.New("cannot record nil relay event")
	}
	if event.ChatID == 0 {
		return errors.New("relay event must have a non-zero chat_id")
	}
	if event.Kind == "" || event.Outcome == "" {
		return errors.New("relay event must have a kind and an outcome")
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	} else {
		event.CreatedAt = event.CreatedAt.UTC()
	}

	query := `
        INSERT INTO relay_events (relay_id, chat_id, user_id, kind, outcome, latency_ms, error, created_at)
        VALUES (:relay_id, :chat_id, :user_id, :kind, :outcome, :latency_ms, :error, :created_at);
    `
	result, err := s.db.NamedExecContext(ctx, query, event)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording relay event", "chat_id", event.ChatID, "outcome", event.Outcome, "error", err)
		return fmt.Errorf("failed to record relay event (chat %d): %w", event.ChatID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get relay event id: %w", err)
	}
	event.ID = uint(id)

	s.logger.DebugContext(ctx, "Relay event recorded", "event_id", event.ID, "outcome", event.Outcome)
	return nil
}

func (s *sqlxStore) CountOutcomesSince(ctx context.Context, since time.Time) (map[string]int, error) {
	var rows []struct {
		Outcome string `db:"outcome"`
		Count   int    `db:"n"`
	}
	query := `SELECT outcome, COUNT(*) AS n FROM relay_events WHERE created_at >= ? GROUP BY outcome`
	if err := s.db.SelectContext(ctx, &rows, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to count relay outcomes: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Outcome] = r.Count
	}
	return counts, nil
}

func (s *sqlxStore) PruneRelayEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM relay_events WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune relay events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}
	s.logger.InfoContext(ctx, "Pruned relay events", "deleted", n, "cutoff", cutoff.UTC())
	return n, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// VACUUM cannot run inside a transaction.
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to execute PRAGMA optimize: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
