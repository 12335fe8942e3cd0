// Package pdf extracts the text layer of PDF statements with pdftotext.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

const DefaultBinary = "pdftotext"

var ErrNoText = errors.New("pdf has no text layer")

// Runner runs an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}

		return nil, err
	}

	return out, nil
}

type Extractor struct {
	binary  string
	timeout time.Duration
	runner  Runner
}

type Option func(*Extractor)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

func New(binary string, timeout time.Duration, opts ...Option) *Extractor {
	if binary == "" {
		binary = DefaultBinary
	}

	e := &Extractor{binary: binary, timeout: timeout, runner: execRunner{}}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract spools r to a temporary file and returns its layout-preserving
// text. Page breaks come back as form feeds.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "recur-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	defer os.Remove(f.Name())

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("spool pdf: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("spool pdf: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	out, err := e.runner.Run(ctx, e.binary, "-layout", "-enc", "UTF-8", "-eol", "unix", f.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.binary, err)
	}

	text := string(out)
	if strings.TrimSpace(strings.ReplaceAll(text, "\f", "")) == "" {
		return "", ErrNoText
	}

	return text, nil
}
