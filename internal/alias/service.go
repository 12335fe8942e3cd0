// Package alias maps raw statement names onto the name the user chose for a
// tracked item, so "PURE GYM LTD" and "PureGym" count as the same charge.
package alias

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

var (
	ErrNotFound = errors.New("alias not found")
	ErrInvalid  = errors.New("invalid alias")
)

type Alias struct {
	ID        uuid.UUID
	Pattern   string
	Name      string
	CreatedAt time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=alias
type Repository interface {
	FindMatch(ctx context.Context, raw string) (string, error)
	CreateAlias(ctx context.Context, pattern, name string) error
	ListAliases(ctx context.Context) ([]*Alias, error)
	DeleteAlias(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the preferred name for a raw statement name, or "" when
// no alias pattern matches.
func (s *Service) Resolve(ctx context.Context, raw string) (string, error) {
	return s.repo.FindMatch(ctx, raw)
}

// Learn remembers that statement text containing pattern refers to name.
func (s *Service) Learn(ctx context.Context, pattern, name string) error {
	pattern = strings.TrimSpace(pattern)
	name = strings.TrimSpace(name)

	if pattern == "" || name == "" {
		return fmt.Errorf("%w: pattern and name are required", ErrInvalid)
	}

	return s.repo.CreateAlias(ctx, pattern, name)
}

func (s *Service) List(ctx context.Context) ([]*Alias, error) {
	return s.repo.ListAliases(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAlias(ctx, id)
}

// Aliases groups alias patterns by the normalised name they resolve to.
func (s *Service) Aliases(ctx context.Context) (map[string][]string, error) {
	all, err := s.repo.ListAliases(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(all))
	for _, a := range all {
		key := recurring.NormalizeName(a.Name)
		out[key] = append(out[key], a.Pattern)
	}

	return out, nil
}

// Apply renames review entries whose name matches a learned alias. It
// returns how many entries were renamed.
func (s *Service) Apply(ctx context.Context, entries []recurring.ReviewEntry) (int, error) {
	renamed := 0

	for i := range entries {
		preferred, err := s.repo.FindMatch(ctx, entries[i].Name)
		if err != nil {
			return renamed, fmt.Errorf("resolving %q: %w", entries[i].Name, err)
		}

		if preferred == "" || preferred == entries[i].Name {
			continue
		}

		entries[i].Name = preferred
		renamed++
	}

	return renamed, nil
}
