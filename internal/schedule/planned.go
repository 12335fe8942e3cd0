package schedule

import (
	"time"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

// Planned is a user-entered expected expense. With an empty Recurrence it
// happens once on Date; with a monthly or annual Recurrence it repeats
// between the optional Start and End bounds.
type Planned struct {
	Date       *time.Time
	Recurrence recurring.Frequency
	Start      *time.Time
	End        *time.Time
}

func (p Planned) OneOff() bool {
	return p.Recurrence == "" || p.Recurrence == recurring.FrequencyUnknown
}

// ResolvePlanned decides whether a planned expense falls in m. Recurring
// plans must cover the whole month: Start on or before the first and End on
// or after the last. Annual plans additionally need Date's month-of-year.
func ResolvePlanned(p Planned, m billing.Month) Occurrence {
	day := 1
	if p.Date != nil {
		day = billing.ClampDay(m, p.Date.Day())
	}

	occ := Occurrence{State: StateNotDue, Day: day, DisplayDay: day}

	if p.OneOff() {
		if p.Date != nil && m.Contains(*p.Date) {
			occ.State = StateDue
		}

		return occ
	}

	if p.Start != nil && p.Start.After(m.First()) {
		return occ
	}

	if p.End != nil && p.End.Before(m.Last()) {
		return occ
	}

	if p.Recurrence == recurring.FrequencyAnnual && p.Date != nil && p.Date.Month() != m.Month {
		return occ
	}

	occ.State = StateDue

	return occ
}
