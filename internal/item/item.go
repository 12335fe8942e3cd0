package item

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/recurring"
	"github.com/MrJamesThe3rd/recur/internal/schedule"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
)

// Item is a confirmed recurring charge.
type Item struct {
	ID              uuid.UUID
	Name            string
	Category        string
	RawAmount       decimal.Decimal // Amount as billed, per Frequency
	Frequency       recurring.Frequency
	BillingDay      *int
	NextBillingDate *time.Time
	LastUsedDate    *time.Time
	SignUpDate      *time.Time
	PausedUntil     *time.Time
	ShiftWeekends   bool
	Confidence      *int
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
}

// MonthlyCost is always derived from RawAmount and Frequency.
func (i *Item) MonthlyCost() decimal.Decimal {
	return recurring.MonthlyCost(i.RawAmount, i.Frequency)
}

func (i *Item) Plan() schedule.Plan {
	return schedule.Plan{
		Frequency:       i.Frequency,
		BillingDay:      i.BillingDay,
		NextBillingDate: i.NextBillingDate,
		LastUsedDate:    i.LastUsedDate,
		SignUpDate:      i.SignUpDate,
		PausedUntil:     i.PausedUntil,
		ShiftWeekends:   i.ShiftWeekends,
	}
}

func (i *Item) Charge() schedule.Charge {
	return schedule.Charge{
		ID:     i.ID.String(),
		Name:   i.Name,
		Amount: i.RawAmount,
		Plan:   i.Plan(),
	}
}

// Planned is a user-entered expected expense shown on the calendar next to
// recurring items.
type Planned struct {
	ID         uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Date       *time.Time
	Recurrence recurring.Frequency // empty for one-off
	StartDate  *time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
}

func (p *Planned) Charge() schedule.PlannedCharge {
	return schedule.PlannedCharge{
		ID:     p.ID.String(),
		Name:   p.Name,
		Amount: p.Amount,
		Plan: schedule.Planned{
			Date:       p.Date,
			Recurrence: p.Recurrence,
			Start:      p.StartDate,
			End:        p.EndDate,
		},
	}
}
