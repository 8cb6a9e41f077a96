// Package tasks implements the relay journal maintenance tasks run by the
// scheduler.
package tasks

import (
	"log/slog"

	"github.com/edgard/saansbot/internal/config"
	"github.com/edgard/saansbot/internal/database"
)

// TaskDeps contains the dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
