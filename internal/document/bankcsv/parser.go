// Package bankcsv reads bank CSV exports. It auto-detects the export format
// (CGD conta, extrato, cartão and common English layouts) by matching column
// headers against known profiles.
package bankcsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/recur/internal/encoding"
	"github.com/MrJamesThe3rd/recur/internal/statement"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Extract renders the debits of a CSV export as statement text.
func (p *Parser) Extract(_ context.Context, r io.Reader) (string, error) {
	txs, err := p.Parse(r)
	if err != nil {
		return "", err
	}

	return statement.Render(txs), nil
}

func (p *Parser) Parse(r io.Reader) ([]statement.Transaction, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, comma := range delimiters() {
		rows, err := readRows(content, comma)
		if err != nil {
			continue
		}

		profile, colMap, headerIdx := detectProfile(rows, comma)
		if profile == nil {
			continue
		}

		return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, fmt.Errorf("no matching bank CSV format found: expected date, description and amount columns")
}

func readRows(content []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) of(name string) int {
	idx, ok := c[strings.ToLower(name)]
	if !ok {
		return -1
	}

	return idx
}

// detectProfile scans rows for a header that matches a profile using comma.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string, comma rune) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, dup := cols[name]; name != "" && !dup {
				cols[name] = i
			}
		}

		for i := range profiles {
			if profiles[i].Comma == comma && matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.of(name) < 0 {
			return false
		}
	}

	return true
}

// parseRows extracts transactions from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]statement.Transaction, error) {
	dateIdx := cols.of(p.DateCol)
	descIdx := cols.of(p.DescCol)

	var txs []statement.Transaction

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx, p.DateLayouts)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, debit, ok := parseRowAmount(p, cols, row)
		if !ok {
			continue
		}

		txs = append(txs, statement.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Debit:       debit,
		})
	}

	return txs, nil
}

// parseDate tries each layout on the given cell.
// Returns false for empty cells or unparseable values (footer rows, etc).
func parseDate(row []string, idx int, layouts []string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseRowAmount extracts the absolute amount and direction from a row based
// on the profile's amount mode.
func parseRowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols.of(p.AmountCol), p.Decimal)
	case amountSplit:
		return parseSplitAmount(row, cols.of(p.DebitCol), cols.of(p.CreditCol), p.Decimal)
	}

	return decimal.Zero, false, false
}

// parseSingleAmount handles a single signed amount column; negative is a debit.
func parseSingleAmount(row []string, idx int, style decimalStyle) (decimal.Decimal, bool, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false, false
	}

	d, err := parseAmount(s, style)
	if err != nil || d.IsZero() {
		return decimal.Zero, false, false
	}

	return d.Abs(), d.IsNegative(), true
}

// parseSplitAmount handles separate debit/credit columns.
func parseSplitAmount(row []string, debitIdx, creditIdx int, style decimalStyle) (decimal.Decimal, bool, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseAmount(s, style)
		if err == nil && !d.IsZero() {
			return d.Abs(), true, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseAmount(s, style)
		if err == nil && !d.IsZero() {
			return d.Abs(), false, true
		}
	}

	return decimal.Zero, false, false
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
