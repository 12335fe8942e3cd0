// Package export writes review entries and tracked items as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Recurring"

// Columns is the header row of every export.
var Columns = []string{"Name", "Category", "Amount", "Frequency", "Monthly Cost", "Next Billing", "Last Used", "Confidence"}

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv"
}

// Filename is the download name for an export taken at t.
func (f Format) Filename(t time.Time) string {
	return fmt.Sprintf("recurring_%s.%s", t.Format("20060102"), f)
}

// Row is one exported line.
type Row struct {
	Name        string
	Category    string
	Amount      decimal.Decimal
	Frequency   recurring.Frequency
	MonthlyCost decimal.Decimal
	NextBilling string
	LastUsed    string
	Confidence  *int
}

func (r Row) strings() []string {
	confidence := ""
	if r.Confidence != nil {
		confidence = strconv.Itoa(*r.Confidence)
	}

	return []string{
		r.Name,
		r.Category,
		r.Amount.StringFixed(2),
		string(r.Frequency),
		r.MonthlyCost.StringFixed(2),
		r.NextBilling,
		r.LastUsed,
		confidence,
	}
}

func RowsFromEntries(entries []recurring.ReviewEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Name:        e.Name,
			Category:    e.Category,
			Amount:      e.Cost,
			Frequency:   e.Frequency,
			MonthlyCost: e.MonthlyCost,
			NextBilling: e.NextBilling,
			LastUsed:    e.LastUsed,
			Confidence:  e.Confidence,
		})
	}

	return rows
}

func RowsFromItems(items []*item.Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			Name:        it.Name,
			Category:    it.Category,
			Amount:      it.RawAmount,
			Frequency:   it.Frequency,
			MonthlyCost: it.MonthlyCost(),
			NextBilling: formatDate(it.NextBillingDate),
			LastUsed:    formatDate(it.LastUsedDate),
			Confidence:  it.Confidence,
		})
	}

	return rows
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateOnly)
}

// Write writes rows to w in format f.
func Write(w io.Writer, f Format, rows []Row) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		if err := cw.Write(r.strings()); err != nil {
			return fmt.Errorf("writing row %q: %w", r.Name, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Amount columns are numeric
// cells with two decimals.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for i, h := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, r := range rows {
		values := []any{
			r.Name,
			r.Category,
			r.Amount.Round(2).InexactFloat64(),
			string(r.Frequency),
			r.MonthlyCost.Round(2).InexactFloat64(),
			r.NextBilling,
			r.LastUsed,
			"",
		}

		if r.Confidence != nil {
			values[7] = *r.Confidence
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %q: %w", r.Name, err)
		}
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	if len(rows) > 0 {
		last := strconv.Itoa(len(rows) + 1)
		_ = f.SetCellStyle(sheetName, "C2", "C"+last, money)
		_ = f.SetCellStyle(sheetName, "E2", "E"+last, money)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	_ = f.SetColWidth(sheetName, "B", "B", 16)
	_ = f.SetColWidth(sheetName, "F", "G", 13)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
