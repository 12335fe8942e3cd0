package billing

import (
	"time"
)

// ProjectNext projects the next billing date from a historical anchor.
//
// The anchor's day-of-month is placed in today's month; if that date is
// strictly before today it moves one month forward. The result is always
// today or later and keeps the anchor's billing day, clamped to shorter
// months (an anchor on the 31st bills on the 30th in a 30-day month).
func ProjectNext(anchor, today time.Time) time.Time {
	day := anchor.Day()
	month := MonthOf(today)

	next := month.Date(day)
	if next.Before(dateOf(today)) {
		next = month.Add(1).Date(day)
	}

	return next
}

// ShiftWeekend moves a billing day that lands on a weekend back to the
// preceding Friday: Saturday by one day, Sunday by two. The shift never
// leaves the month; a day 1 or 2 that would move into the previous month is
// clamped to day 1.
func ShiftWeekend(m Month, day int) int {
	day = ClampDay(m, day)

	switch m.Date(day).Weekday() {
	case time.Saturday:
		day--
	case time.Sunday:
		day -= 2
	}

	return max(1, day)
}

// IsWeekend reports whether the given day of m is a Saturday or Sunday.
func IsWeekend(m Month, day int) bool {
	wd := m.Date(day).Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProjectNextYearly is ProjectNext for annual charges: the anchor's month
// and day are placed in today's year and moved a year forward when that
// date has already passed. February 29th bills on the 28th in common years.
func ProjectNextYearly(anchor, today time.Time) time.Time {
	today = dateOf(today)

	next := Month{Year: today.Year(), Month: anchor.Month()}.Date(anchor.Day())
	if next.Before(today) {
		next = Month{Year: today.Year() + 1, Month: anchor.Month()}.Date(anchor.Day())
	}

	return next
}
