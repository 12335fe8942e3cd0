package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Options configures the connection. Zero pool settings fall back to the
// defaults below.
type Options struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
	// SkipMigrate leaves the schema untouched.
	SkipMigrate bool
}

const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
	defaultConnLifetime = 5 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = defaultMaxOpenConns
	}

	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = defaultMaxIdleConns
	}

	if o.MaxIdleConns > o.MaxOpenConns {
		o.MaxIdleConns = o.MaxOpenConns
	}

	if o.ConnLifetime <= 0 {
		o.ConnLifetime = defaultConnLifetime
	}

	return o
}

// Open connects to Postgres through pgx, sizes the pool and applies any
// pending migrations.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	opts = opts.withDefaults()

	db, err := sql.Open("pgx", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if opts.SkipMigrate {
		return db, nil
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}
