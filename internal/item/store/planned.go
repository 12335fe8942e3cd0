package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

func (s *Store) CreatePlanned(ctx context.Context, p *item.Planned) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO planned_items (id, name, amount, date, recurrence, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.ID,
		p.Name,
		p.Amount,
		p.Date,
		p.Recurrence,
		p.StartDate,
		p.EndDate,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating planned item: %w", err)
	}

	return nil
}

func (s *Store) ListPlanned(ctx context.Context) ([]*item.Planned, error) {
	query := `
		SELECT id, name, amount, date, recurrence, start_date, end_date, created_at
		FROM planned_items
		ORDER BY COALESCE(date, start_date) ASC NULLS LAST, LOWER(name) ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing planned items: %w", err)
	}
	defer rows.Close()

	var planned []*item.Planned

	for rows.Next() {
		var (
			p          item.Planned
			recurrence string
		)

		if err := rows.Scan(&p.ID, &p.Name, &p.Amount, &p.Date, &recurrence, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning planned item: %w", err)
		}

		p.Recurrence = recurring.Frequency(recurrence)
		planned = append(planned, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating planned items: %w", err)
	}

	return planned, nil
}

func (s *Store) DeletePlanned(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM planned_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting planned item: %w", err)
	}

	return requireAffected(res)
}
