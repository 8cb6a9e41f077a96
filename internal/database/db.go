// Package database provides the optional relay journal: SQLite setup,
// embedded migrations and the Store used to record relay outcomes.
package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/edgard/saansbot/migrations"

	_ "modernc.org/sqlite" //revive:disable:blank-imports
)

// busyTimeoutPragma makes a locked journal wait instead of failing at once.
const busyTimeoutPragma = "_pragma=busy_timeout(5000)"

// ErrEmptyPath is returned by NewDB when no journal path is configured.
var ErrEmptyPath = errors.New("relay journal path is empty")

// NewDB opens the relay journal at path and brings its schema up to date.
// The pool holds a single connection since SQLite has one writer.
func NewDB(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	db, err := sqlx.Connect("sqlite", withPragma(path))
	if err != nil {
		return nil, fmt.Errorf("open relay journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	version, err := migrateUp(db, journalFile(path))
	if err != nil {
		CloseDB(db)
		return nil, err
	}

	slog.Info("Relay journal opened", "path", path, "schema_version", version)
	return db, nil
}

// CloseDB closes the journal, logging rather than returning the error since
// it runs on shutdown.
func CloseDB(db *sqlx.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		slog.Error("Relay journal did not close cleanly", "error", err)
		return
	}
	slog.Debug("Relay journal closed")
}

// migrateUp applies the embedded migrations and returns the resulting schema version.
func migrateUp(db *sqlx.DB, name string) (uint, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return 0, fmt.Errorf("load embedded migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(db.DB, &sqlite.Config{DatabaseName: name})
	if err != nil {
		return 0, fmt.Errorf("prepare journal for migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return 0, fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate relay journal: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read journal schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("relay journal schema version %d is dirty", version)
	}
	return version, nil
}

// withPragma appends the busy timeout to a path or file: DSN.
func withPragma(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + busyTimeoutPragma
	}
	return path + "?" + busyTimeoutPragma
}

// journalFile strips the file: scheme and query from a DSN, leaving the file
// name the migration driver reports.
func journalFile(dsn string) string {
	name := strings.TrimPrefix(dsn, "file:")
	name, _, _ = strings.Cut(name, "?")
	return name
}
