// Package document turns uploaded statements into decoded plain text for
// the recurring-charge engine.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/recur/internal/document/bankcsv"
	"github.com/MrJamesThe3rd/recur/internal/document/ofx"
	"github.com/MrJamesThe3rd/recur/internal/document/pdf"
	"github.com/MrJamesThe3rd/recur/internal/encoding"
)

var (
	ErrExtractionFailed = errors.New("document text extraction failed")
	ErrUnknownFormat    = errors.New("unknown document format")
)

type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
	FormatOFX  Format = "ofx"
)

// ParseFormat accepts a format name, a file extension or a content type.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "text", "txt", "text/plain":
		return FormatText, nil
	case "pdf", "application/pdf":
		return FormatPDF, nil
	case "csv", "text/csv":
		return FormatCSV, nil
	case "ofx", "qfx", "application/x-ofx":
		return FormatOFX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf infers the format from a file name's extension.
func FormatOf(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// Extractor turns one document into statement text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, r io.Reader) (string, error) {
	return encoding.ReadText(r)
}

type Service struct {
	extractors map[Format]Extractor
}

type Option func(*Service)

// WithExtractor registers e for f, replacing the default.
func WithExtractor(f Format, e Extractor) Option {
	return func(s *Service) { s.extractors[f] = e }
}

// NewService wires the default extractor for every format. pdftotext is
// looked up as pdftotextBin and bounded by timeout.
func NewService(pdftotextBin string, timeout time.Duration, opts ...Option) *Service {
	s := &Service{
		extractors: map[Format]Extractor{
			FormatText: textExtractor{},
			FormatPDF:  pdf.New(pdftotextBin, timeout),
			FormatCSV:  bankcsv.NewParser(),
			FormatOFX:  ofx.NewParser(),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Extract returns the plain text of a document. Line breaks are normalised
// so that page breaks read as newlines. Any extractor failure is reported
// as ErrExtractionFailed.
func (s *Service) Extract(ctx context.Context, f Format, r io.Reader) (string, error) {
	e, ok := s.extractors[f]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	text, err := e.Extract(ctx, r)
	if err != nil {
		slog.Warn("document extraction failed", "format", f, "error", err)
		return "", fmt.Errorf("%w: %s: %w", ErrExtractionFailed, f, err)
	}

	return encoding.NormalizeBreaks(text), nil
}
