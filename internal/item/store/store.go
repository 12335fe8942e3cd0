package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

// confirmLockKey serialises confirmations across connections.
const confirmLockKey int64 = 0x7265637572 // "recur"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectItemColumns = `
	id, name, category, raw_amount, frequency, billing_day, next_billing_date,
	last_used_date, sign_up_date, paused_until, shift_weekends, confidence,
	created_at, updated_at, deleted_at
`

// scanItem reads a row in selectItemColumns order.
func scanItem(s scanner) (*item.Item, error) {
	var (
		it         item.Item
		frequency  string
		billingDay sql.NullInt16
		confidence sql.NullInt16
	)

	if err := s.Scan(
		&it.ID, &it.Name, &it.Category, &it.RawAmount, &frequency, &billingDay, &it.NextBillingDate,
		&it.LastUsedDate, &it.SignUpDate, &it.PausedUntil, &it.ShiftWeekends, &confidence,
		&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt,
	); err != nil {
		return nil, err
	}

	it.Frequency = recurring.Frequency(frequency)

	if billingDay.Valid {
		it.BillingDay = new(int(billingDay.Int16))
	}

	if confidence.Valid {
		it.Confidence = new(int(confidence.Int16))
	}

	return &it, nil
}

const insertItemQuery = `
	INSERT INTO recurring_items (
		id, name, category, raw_amount, frequency, billing_day, next_billing_date,
		last_used_date, sign_up_date, paused_until, shift_weekends, confidence, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	RETURNING created_at
`

func insertItem(ctx context.Context, q querier, it *item.Item) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}

	return q.QueryRowContext(ctx, insertItemQuery,
		it.ID,
		it.Name,
		it.Category,
		it.RawAmount,
		it.Frequency,
		it.BillingDay,
		it.NextBillingDate,
		it.LastUsedDate,
		it.SignUpDate,
		it.PausedUntil,
		it.ShiftWeekends,
		it.Confidence,
	).Scan(&it.CreatedAt)
}

func (s *Store) CreateItem(ctx context.Context, it *item.Item) error {
	if err := insertItem(ctx, s.db, it); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM recurring_items
		WHERE id = $1 AND deleted_at IS NULL`

	it, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, item.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return it, nil
}

func listItems(ctx context.Context, q querier, filter item.ListFilter) ([]*item.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM recurring_items
		WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.Frequency != nil {
		query += fmt.Sprintf(" AND frequency = $%d", argIdx)

		args = append(args, *filter.Frequency)
	}

	query += " ORDER BY LOWER(name) ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

func (s *Store) ListItems(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	return listItems(ctx, s.db, filter)
}

func (s *Store) UpdateItem(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE recurring_items
		SET name = $1, category = $2, raw_amount = $3, frequency = $4, billing_day = $5,
			next_billing_date = $6, last_used_date = $7, sign_up_date = $8, paused_until = $9,
			shift_weekends = $10, updated_at = NOW()
		WHERE id = $11 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		it.Name,
		it.Category,
		it.RawAmount,
		it.Frequency,
		it.BillingDay,
		it.NextBillingDate,
		it.LastUsedDate,
		it.SignUpDate,
		it.PausedUntil,
		it.ShiftWeekends,
		it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) UpdateBillingDates(ctx context.Context, id uuid.UUID, next, lastUsed time.Time) error {
	query := `
		UPDATE recurring_items
		SET next_billing_date = $1, last_used_date = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, next, lastUsed, id)
	if err != nil {
		return fmt.Errorf("updating billing dates: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE recurring_items
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return item.ErrNotFound
	}

	return nil
}

type confirmTx struct {
	tx *sql.Tx
}

// BeginConfirm opens a transaction holding an advisory lock for its
// lifetime.
func (s *Store) BeginConfirm(ctx context.Context) (item.ConfirmTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning confirm tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", confirmLockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring confirm lock: %w", err)
	}

	return &confirmTx{tx: dbTx}, nil
}

func (c *confirmTx) Commit() error   { return c.tx.Commit() }
func (c *confirmTx) Rollback() error { return c.tx.Rollback() }

func (c *confirmTx) ListItems(ctx context.Context) ([]*item.Item, error) {
	return listItems(ctx, c.tx, item.ListFilter{})
}

func (c *confirmTx) CreateItems(ctx context.Context, items []*item.Item) error {
	for _, it := range items {
		if err := insertItem(ctx, c.tx, it); err != nil {
			return fmt.Errorf("creating item %q: %w", it.Name, err)
		}
	}

	return nil
}
