// Package schedule decides, for a tracked charge and a calendar month,
// whether the charge bills that month and on which day.
package schedule

import (
	"time"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

// State is the outcome of resolving one charge against one month.
type State string

const (
	StateSuppressed State = "suppressed"
	StateNotDue     State = "not_due"
	StateDue        State = "due"
)

// Plan is the scheduling view of a tracked charge.
type Plan struct {
	Frequency       recurring.Frequency
	BillingDay      *int
	NextBillingDate *time.Time
	LastUsedDate    *time.Time
	SignUpDate      *time.Time
	PausedUntil     *time.Time
	ShiftWeekends   bool
}

// Occurrence is a resolved (charge, month) pair. Day is the canonical
// billing day clamped into the month; DisplayDay is Day after the optional
// weekend shift.
type Occurrence struct {
	State      State `json:"state"`
	Day        int   `json:"day"`
	DisplayDay int   `json:"display_day"`
}

func (o Occurrence) Occurs() bool { return o.State == StateDue }

// Resolver resolves plans against months relative to a fixed today.
type Resolver struct {
	today time.Time
}

func NewResolver(today time.Time) Resolver {
	return Resolver{today: today}
}

// Resolve runs the per-month state machine:
//
//  1. a pause date inside the month suppresses it;
//  2. the day comes from the explicit billing day, the next billing date,
//     the last-used or sign-up date, or defaults to 1;
//  3. annual charges are due only in the month-of-year of the next billing
//     date (or today when unset); all others are due every month from the
//     sign-up month on.
func (r Resolver) Resolve(p Plan, m billing.Month) Occurrence {
	if p.PausedUntil != nil && m.Contains(*p.PausedUntil) {
		return Occurrence{State: StateSuppressed}
	}

	day := billing.ClampDay(m, resolveDay(p))
	occ := Occurrence{State: StateNotDue, Day: day, DisplayDay: day}

	switch p.Frequency {
	case recurring.FrequencyAnnual:
		ref := r.today
		if p.NextBillingDate != nil {
			ref = *p.NextBillingDate
		}

		if ref.Month() != m.Month {
			return occ
		}
	default:
		if p.SignUpDate != nil && m.Before(billing.MonthOf(*p.SignUpDate)) {
			return occ
		}
	}

	occ.State = StateDue

	if p.ShiftWeekends {
		occ.DisplayDay = billing.ShiftWeekend(m, day)
	}

	return occ
}

func resolveDay(p Plan) int {
	switch {
	case p.BillingDay != nil:
		return *p.BillingDay
	case p.NextBillingDate != nil:
		return p.NextBillingDate.Day()
	case p.LastUsedDate != nil:
		return p.LastUsedDate.Day()
	case p.SignUpDate != nil:
		return p.SignUpDate.Day()
	default:
		return 1
	}
}

// NextBilling projects a fresh next billing date for p from anchor, keeping
// the explicit billing day when one is set.
func (r Resolver) NextBilling(p Plan, anchor time.Time) time.Time {
	if p.BillingDay != nil {
		m := billing.MonthOf(anchor)
		anchor = m.Date(*p.BillingDay)
	}

	if p.Frequency == recurring.FrequencyAnnual {
		return billing.ProjectNextYearly(anchor, r.today)
	}

	return billing.ProjectNext(anchor, r.today)
}
