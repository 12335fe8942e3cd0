// Package scan runs an uploaded statement through text extraction and the
// recurring-charge engine, then feeds what it learned back into the
// tracked items.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=scan
type Extractor interface {
	Extract(ctx context.Context, f document.Format, r io.Reader) (string, error)
}

// Items is the tracked-item side of a scan.
type Items interface {
	KnownSet(ctx context.Context) (*recurring.KnownSet, error)
	Refresh(ctx context.Context, detections []recurring.ParsedResult) (int, error)
}

// Aliases renames review entries to the names the user taught.
type Aliases interface {
	Apply(ctx context.Context, entries []recurring.ReviewEntry) (int, error)
}

type Service struct {
	docs    Extractor
	engine  *recurring.Engine
	items   Items
	aliases Aliases
}

type Option func(*Service)

func WithAliases(a Aliases) Option {
	return func(s *Service) { s.aliases = a }
}

func NewService(docs Extractor, engine *recurring.Engine, items Items, opts ...Option) *Service {
	s := &Service{docs: docs, engine: engine, items: items}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Report is the outcome of one scan.
type Report struct {
	*recurring.Result
	Format document.Format `json:"format"`
	// Refreshed counts tracked items whose billing dates moved.
	Refreshed int `json:"refreshed"`
	// Renamed counts review entries renamed by an alias.
	Renamed int `json:"renamed"`
}

// Scan extracts the text of r and parses it.
func (s *Service) Scan(ctx context.Context, f document.Format, r io.Reader) (*Report, error) {
	text, err := s.docs.Extract(ctx, f, r)
	if err != nil {
		return nil, err
	}

	rep, err := s.ScanText(ctx, text)
	if err != nil {
		return nil, err
	}

	rep.Format = f

	return rep, nil
}

// ScanText parses already decoded statement text against the tracked
// items, renames entries through aliases and refreshes the billing dates
// of items the statement shows being charged again.
func (s *Service) ScanText(ctx context.Context, text string) (*Report, error) {
	known, err := s.items.KnownSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading known items: %w", err)
	}

	rep := &Report{Format: document.FormatText, Result: s.engine.Parse(text, known)}

	if s.aliases != nil {
		rep.Renamed, err = s.aliases.Apply(ctx, rep.Entries)
		if err != nil {
			return nil, fmt.Errorf("applying aliases: %w", err)
		}

		if rep.Renamed > 0 {
			s.engine.Rebuild(rep.Result)
		}
	}

	rep.Refreshed, err = s.items.Refresh(ctx, rep.Matched)
	if err != nil {
		return nil, fmt.Errorf("refreshing billing dates: %w", err)
	}

	slog.Info("statement scanned",
		"rows", rep.Rows,
		"entries", len(rep.Entries),
		"matched", len(rep.Matched),
		"refreshed", rep.Refreshed,
		"dropped", rep.Dropped.Total(),
	)

	return rep, nil
}
