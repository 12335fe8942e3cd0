// Package statement turns decoded statement text into logical rows.
//
// Bank statements rendered to plain text wrap a single transaction across
// several physical lines. Reconstruct stitches those fragments back together
// so that each Row starts at a date token and ends once a money amount has
// been consumed.
package statement

import (
	"regexp"
	"strings"
)

// Row is a logical transaction-like row assembled from one or more lines.
type Row struct {
	Text string
}

var (
	// "3rd Jan", "21st February 2025". The ordinal suffix is required.
	ordinalDatePattern = regexp.MustCompile(`(?i)^\d{1,2}(?:st|nd|rd|th)\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?(?:\s+(?:19|20)\d{2})?\b`)

	// "03/01/2025", "3-1-25", "03.01.2025".
	numericDatePattern = regexp.MustCompile(`^\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}\b`)

	moneyPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}|\d+\.\d{2}`)

	trailingMoneyPattern = regexp.MustCompile(`(?:\d{1,3}(?:,\d{3})*\.\d{2}|\d+\.\d{2})\s*(?:CR|DR)?$`)
)

// IsDateLike reports whether the line starts with an ordinal day + month
// token or a numeric D/M/Y date.
func IsDateLike(line string) bool {
	line = strings.TrimSpace(line)
	return ordinalDatePattern.MatchString(line) || numericDatePattern.MatchString(line)
}

// EndsWithAmount reports whether the text ends in something that looks like
// a money amount, optionally followed by a CR/DR marker. A leading date is
// ignored so that "03.01.25" on its own does not read as an amount.
func EndsWithAmount(text string) bool {
	return trailingMoneyPattern.MatchString(StripDatePrefix(text))
}

// HasAmount reports whether text contains a money-amount token anywhere.
func HasAmount(text string) bool {
	return moneyPattern.MatchString(text)
}

// FindAmount returns the byte offsets of the first money-amount token in
// text, or nil when there is none.
func FindAmount(text string) []int {
	return moneyPattern.FindStringIndex(text)
}

// StripDatePrefix removes up to two leading date tokens (posting date and
// value date) from text.
func StripDatePrefix(text string) string {
	text = strings.TrimSpace(text)

	for range 2 {
		loc := ordinalDatePattern.FindStringIndex(text)
		if loc == nil {
			loc = numericDatePattern.FindStringIndex(text)
		}

		if loc == nil {
			break
		}

		text = strings.TrimSpace(text[loc[1]:])
	}

	return text
}

// Lines splits raw text into trimmed, non-empty lines. Form feeds (page
// breaks) and carriage returns count as line breaks.
func Lines(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == '\f'
	})

	lines := make([]string, 0, len(fields))

	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			lines = append(lines, f)
		}
	}

	return lines
}

// Reconstruct merges continuation fragments of text into logical rows.
//
// A date-like line flushes whatever is pending and opens a new row. A dated
// row that does not already end in an amount absorbs the next line when it is
// not date-like, and one further non-date line when the first absorbed line
// did not end in an amount; the row is then complete. Lines outside a dated
// row accumulate until the accumulated text ends in an amount.
//
// Every input line lands in exactly one row, rows keep input order and no
// row is empty.
func Reconstruct(text string) []Row {
	lines := Lines(text)

	var (
		rows []Row
		cur  []string
	)

	flush := func() {
		if len(cur) == 0 {
			return
		}

		rows = append(rows, Row{Text: strings.Join(cur, " ")})
		cur = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !IsDateLike(line) {
			cur = append(cur, line)
			if EndsWithAmount(strings.Join(cur, " ")) {
				flush()
			}

			continue
		}

		flush()

		cur = []string{line}

		if EndsWithAmount(line) {
			flush()
			continue
		}

		if i+1 < len(lines) && !IsDateLike(lines[i+1]) {
			i++
			cur = append(cur, lines[i])

			if !EndsWithAmount(lines[i]) && i+1 < len(lines) && !IsDateLike(lines[i+1]) {
				i++
				cur = append(cur, lines[i])
			}
		}

		flush()
	}

	flush()

	return rows
}
