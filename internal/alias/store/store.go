package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recur/internal/alias"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindMatch returns the name of the longest pattern contained in raw, or ""
// when nothing matches.
func (s *Store) FindMatch(ctx context.Context, raw string) (string, error) {
	query := `
		SELECT name
		FROM name_aliases
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var name string

	err := s.db.QueryRowContext(ctx, query, raw).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding alias: %w", err)
	}

	return name, nil
}

func (s *Store) CreateAlias(ctx context.Context, pattern, name string) error {
	query := `
		INSERT INTO name_aliases (id, pattern, name, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (pattern) DO UPDATE SET name = EXCLUDED.name, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, uuid.New(), pattern, name); err != nil {
		return fmt.Errorf("creating alias: %w", err)
	}

	return nil
}

func (s *Store) ListAliases(ctx context.Context) ([]*alias.Alias, error) {
	query := `
		SELECT id, pattern, name, created_at
		FROM name_aliases
		ORDER BY LOWER(name), LENGTH(pattern) DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing aliases: %w", err)
	}
	defer rows.Close()

	var out []*alias.Alias

	for rows.Next() {
		var a alias.Alias
		if err := rows.Scan(&a.ID, &a.Pattern, &a.Name, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}

		out = append(out, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating aliases: %w", err)
	}

	return out, nil
}

func (s *Store) DeleteAlias(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM name_aliases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting alias: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return alias.ErrNotFound
	}

	return nil
}
