package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

// Charge is a tracked recurring charge as the calendar sees it.
type Charge struct {
	ID     string
	Name   string
	Amount decimal.Decimal
	Plan   Plan
}

// PlannedCharge is a planned expense as the calendar sees it.
type PlannedCharge struct {
	ID     string
	Name   string
	Amount decimal.Decimal
	Plan   Planned
}

// Entry is one line on a calendar month.
type Entry struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	Frequency  recurring.Frequency `json:"frequency,omitempty"`
	Day        int                 `json:"day"`
	DisplayDay int                 `json:"display_day"`
	Planned    bool                `json:"planned"`
}

// MonthView is the rendered content of one month.
type MonthView struct {
	Month   billing.Month `json:"-"`
	Label   string        `json:"month"`
	Entries []Entry       `json:"entries"`
	// Paused lists charges suppressed this month.
	Paused []Entry `json:"paused"`
	// Total is what is expected to leave the account this month.
	Total decimal.Decimal `json:"total"`
	// Excluded is set for past months in a forward-only calendar.
	Excluded bool `json:"excluded"`
}

// Days groups the month's entries by display day.
func (v MonthView) Days() map[int][]Entry {
	days := make(map[int][]Entry)
	for _, e := range v.Entries {
		days[e.DisplayDay] = append(days[e.DisplayDay], e)
	}

	return days
}

type memoKey struct {
	id    string
	month billing.Month
}

// Calendar renders month views for a single rendering pass. Resolutions
// are memoised per (charge, month) for the lifetime of the Calendar, so a
// Calendar must not outlive the data it was given. It is not safe for
// concurrent use.
type Calendar struct {
	resolver    Resolver
	today       time.Time
	forwardOnly bool
	memo        map[memoKey]Occurrence
}

type CalendarOption func(*Calendar)

// ForwardOnly excludes months before the current one.
func ForwardOnly() CalendarOption {
	return func(c *Calendar) { c.forwardOnly = true }
}

func NewCalendar(today time.Time, opts ...CalendarOption) *Calendar {
	c := &Calendar{
		resolver: NewResolver(today),
		today:    today,
		memo:     make(map[memoKey]Occurrence),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Month renders m.
func (c *Calendar) Month(charges []Charge, planned []PlannedCharge, m billing.Month) MonthView {
	view := MonthView{Month: m, Label: m.String(), Total: decimal.Zero}

	if c.forwardOnly && m.Before(billing.MonthOf(c.today)) {
		view.Excluded = true
		return view
	}

	for _, ch := range charges {
		occ := c.resolve(ch, m)

		entry := Entry{
			ID:         ch.ID,
			Name:       ch.Name,
			Amount:     monthAmount(ch.Amount, ch.Plan.Frequency),
			Frequency:  ch.Plan.Frequency,
			Day:        occ.Day,
			DisplayDay: occ.DisplayDay,
		}

		switch occ.State {
		case StateDue:
			view.Entries = append(view.Entries, entry)
			view.Total = view.Total.Add(entry.Amount)
		case StateSuppressed:
			view.Paused = append(view.Paused, entry)
		}
	}

	for _, p := range planned {
		occ := ResolvePlanned(p.Plan, m)
		if !occ.Occurs() {
			continue
		}

		amount := p.Amount.Round(2)

		view.Entries = append(view.Entries, Entry{
			ID:         p.ID,
			Name:       p.Name,
			Amount:     amount,
			Frequency:  p.Plan.Recurrence,
			Day:        occ.Day,
			DisplayDay: occ.DisplayDay,
			Planned:    true,
		})
		view.Total = view.Total.Add(amount)
	}

	sort.SliceStable(view.Entries, func(i, j int) bool {
		a, b := view.Entries[i], view.Entries[j]
		if a.DisplayDay != b.DisplayDay {
			return a.DisplayDay < b.DisplayDay
		}

		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	return view
}

// Range renders n consecutive months starting at from.
func (c *Calendar) Range(charges []Charge, planned []PlannedCharge, from billing.Month, n int) []MonthView {
	views := make([]MonthView, 0, max(0, n))
	for i := range n {
		views = append(views, c.Month(charges, planned, from.Add(i)))
	}

	return views
}

func (c *Calendar) resolve(ch Charge, m billing.Month) Occurrence {
	if ch.ID == "" {
		return c.resolver.Resolve(ch.Plan, m)
	}

	key := memoKey{id: ch.ID, month: m}
	if occ, ok := c.memo[key]; ok {
		return occ
	}

	occ := c.resolver.Resolve(ch.Plan, m)
	c.memo[key] = occ

	return occ
}

// monthAmount is what a due charge costs in the month it bills: the full
// amount for annual charges and the monthly equivalent otherwise.
func monthAmount(amount decimal.Decimal, f recurring.Frequency) decimal.Decimal {
	if f == recurring.FrequencyAnnual {
		return amount.Round(2)
	}

	return recurring.MonthlyCost(amount, f)
}
