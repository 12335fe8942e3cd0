package statement

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ordinalPartsPattern = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)\s+([a-z]{3})[a-z]*\.?(?:\s+((?:19|20)\d{2}))?`)
	numericPartsPattern = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// ParseDate reads the leading date token of a statement row.
//
// Numeric dates are day-first (D/M/Y) and two-digit years land in 2000-2099.
// Ordinal dates without a year ("3rd Jan") take the year of today, or the
// previous year when that would put the date after today. The second return
// value is false when the row does not start with a valid date.
func ParseDate(text string, today time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)

	if m := numericPartsPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		if len(m[3]) == 2 {
			year += 2000
		}

		return buildDate(year, time.Month(month), day)
	}

	if m := ordinalPartsPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])

		month, ok := monthsByPrefix[strings.ToLower(m[2])]
		if !ok {
			return time.Time{}, false
		}

		if m[3] != "" {
			year, _ := strconv.Atoi(m[3])
			return buildDate(year, month, day)
		}

		t, ok := buildDate(today.Year(), month, day)
		if !ok {
			return time.Time{}, false
		}

		if t.After(DateOf(today)) {
			return buildDate(today.Year()-1, month, day)
		}

		return t, true
	}

	return time.Time{}, false
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// buildDate rejects impossible dates instead of letting time.Date normalise
// them (31/02 must not become 03/03).
func buildDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}

	return t, true
}
