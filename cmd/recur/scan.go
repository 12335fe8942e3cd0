package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/export"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
	"github.com/MrJamesThe3rd/recur/internal/scan"
)

type scanOptions struct {
	format  string
	offline bool
	confirm bool
	asJSON  bool
	output  string
}

func scanCmd(root *rootOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [files...]",
		Short: "Find recurring charges in bank statements",
		Long: `Scan one or more statements for recurring charges.

Examples:
  # Scan a PDF statement against the tracked items
  recur scan ~/Downloads/statement_jan.pdf

  # Scan every CSV export without touching the database
  recur scan --offline ~/Downloads/*.csv

  # Save every known-service detection straight away
  recur scan --confirm statement.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "statement format (pdf, csv, ofx, text); inferred from the extension by default")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "scan without a database")
	cmd.Flags().BoolVar(&opts.confirm, "confirm", false, "save known-service detections as tracked items")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the scan reports as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the review entries to a .csv or .xlsx file")

	cmd.MarkFlagsMutuallyExclusive("offline", "confirm")

	return cmd
}

func expandFiles(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}

		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				slog.Warn("no files found matching pattern", "pattern", pattern)
				continue
			}

			matches = []string{pattern}
		}

		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to scan")
	}

	return files, nil
}

func runScan(cmd *cobra.Command, root *rootOptions, opts *scanOptions, args []string) error {
	ctx := cmd.Context()
	cfg := root.cfg

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	docs := document.NewService(cfg.Extraction.PDFToText, cfg.Extraction.Timeout)

	var (
		svc   *scan.Service
		items *item.Service
	)

	if opts.offline {
		engine, err := cfg.NewEngine()
		if err != nil {
			return err
		}

		svc = scan.NewService(docs, engine, offlineItems{})
	} else {
		a, err := openApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		items = a.items
		svc = scan.NewService(docs, a.engine, a.items, scan.WithAliases(a.alias))
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scanning statements"),
		progressbar.OptionClearOnFinish(),
	)

	reports := make(map[string]*scan.Report, len(files))

	var entries []recurring.ReviewEntry

	for _, path := range files {
		rep, err := scanFile(cmd, svc, opts.format, path)
		_ = bar.Add(1)

		if err != nil {
			slog.Error("failed to scan statement", "file", path, "error", err)
			continue
		}

		reports[path] = rep
		entries = append(entries, rep.Entries...)
	}

	_ = bar.Finish()

	if len(reports) == 0 {
		return fmt.Errorf("no statement could be scanned")
	}

	out := cmd.OutOrStdout()

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, path := range files {
			if rep, ok := reports[path]; ok {
				printReport(out, filepath.Base(path), rep)
			}
		}
	}

	if opts.output != "" {
		if err := writeEntries(opts.output, entries); err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", len(entries), opts.output)
	}

	if opts.confirm {
		return confirmParsed(cmd, items, entries)
	}

	return nil
}

func scanFile(cmd *cobra.Command, svc *scan.Service, formatFlag, path string) (*scan.Report, error) {
	format, err := formatFor(formatFlag, path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return svc.Scan(cmd.Context(), format, f)
}

func formatFor(flag, path string) (document.Format, error) {
	if flag != "" {
		return document.ParseFormat(flag)
	}

	return document.FormatOf(path)
}

func printReport(w io.Writer, name string, rep *scan.Report) {
	fmt.Fprintf(w, "\n%s: %d rows, %d to review, %d already tracked\n",
		name, rep.Rows, len(rep.Entries), len(rep.Matched))

	if len(rep.Entries) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCOST\tFREQUENCY\tMONTHLY\tSOURCE\tLAST USED")

	for _, e := range rep.Entries {
		frequency := string(e.Frequency)
		if e.NeedsFrequency {
			frequency += "?"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Name, e.Cost.StringFixed(2), frequency, e.MonthlyCost.StringFixed(2), e.Source, e.LastUsed)
	}

	tw.Flush()

	fmt.Fprintf(w, "Monthly total: %s  Annual total: %s\n",
		rep.Stats.MonthlyTotal.StringFixed(2), rep.Stats.AnnualTotal.StringFixed(2))
}

func writeEntries(path string, entries []recurring.ReviewEntry) error {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return export.Write(f, format, export.RowsFromEntries(entries))
}

// confirmParsed saves the known-service detections; candidates always need
// a manual review.
func confirmParsed(cmd *cobra.Command, items *item.Service, entries []recurring.ReviewEntry) error {
	var params []item.CreateParams

	for _, e := range entries {
		if e.Source == recurring.SourceParsed {
			params = append(params, item.ParamsFromResult(e.ParsedResult))
		}
	}

	res, err := items.Confirm(cmd.Context(), params)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %d items, skipped %d already tracked.\n", len(res.Created), len(res.Skipped))

	return nil
}
