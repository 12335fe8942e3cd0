// Package billing holds the calendar arithmetic shared by extraction and
// scheduling: month values, billing-day clamping, weekend shifting and
// next-billing projection. All dates are calendar dates in UTC.
package billing

import (
	"fmt"
	"time"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month t falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parsing month %q: %w", s, err)
	}

	return MonthOf(t), nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.Last().Day()
}

// Contains reports whether t falls in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}

	return m.Month < other.Month
}

func (m Month) After(other Month) bool { return other.Before(m) }

// Add moves the month by n months (n may be negative).
func (m Month) Add(n int) Month {
	return MonthOf(m.First().AddDate(0, n, 0))
}

// Date returns the given day of the month, clamped into the month.
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, m.Month, ClampDay(m, day), 0, 0, 0, 0, time.UTC)
}

// ClampDay clamps day to [1, days in m].
func ClampDay(m Month, day int) int {
	return max(1, min(day, m.Days()))
}
