package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration is one forward-only schema step.
type Migration struct {
	Version     int
	Description string
	Statements  []string
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "recurring items",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS recurring_items (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT 'other',
				raw_amount NUMERIC(12, 2) NOT NULL CHECK (raw_amount > 0),
				frequency TEXT NOT NULL DEFAULT 'unknown',
				billing_day SMALLINT CHECK (billing_day BETWEEN 1 AND 31),
				next_billing_date DATE,
				last_used_date DATE,
				sign_up_date DATE,
				paused_until DATE,
				shift_weekends BOOLEAN NOT NULL DEFAULT FALSE,
				confidence SMALLINT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ,
				deleted_at TIMESTAMPTZ
			)`,
			`CREATE INDEX IF NOT EXISTS idx_recurring_items_name ON recurring_items (LOWER(name)) WHERE deleted_at IS NULL`,
		},
	},
	{
		Version:     2,
		Description: "name aliases",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS name_aliases (
				id UUID PRIMARY KEY,
				pattern TEXT NOT NULL UNIQUE,
				name TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
	},
	{
		Version:     3,
		Description: "planned expenses",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS planned_items (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				amount NUMERIC(12, 2) NOT NULL CHECK (amount > 0),
				date DATE,
				recurrence TEXT NOT NULL DEFAULT '',
				start_date DATE,
				end_date DATE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		},
	},
}

// Migrate applies every migration newer than the recorded schema version,
// each in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		if err := apply(ctx, db, m); err != nil {
			return err
		}

		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", m.Version, err)
	}

	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", m.Version, err)
	}

	return nil
}

// LatestVersion is the schema version after all migrations.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}
