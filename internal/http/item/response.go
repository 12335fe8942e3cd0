package item

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

type itemResponse struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Category        string              `json:"category"`
	Amount          decimal.Decimal     `json:"amount"`
	Frequency       recurring.Frequency `json:"frequency"`
	MonthlyCost     decimal.Decimal     `json:"monthly_cost"`
	BillingDay      *int                `json:"billing_day,omitempty"`
	NextBillingDate *time.Time          `json:"next_billing_date,omitempty"`
	LastUsedDate    *time.Time          `json:"last_used_date,omitempty"`
	SignUpDate      *time.Time          `json:"sign_up_date,omitempty"`
	PausedUntil     *time.Time          `json:"paused_until,omitempty"`
	ShiftWeekends   bool                `json:"shift_weekends"`
	Confidence      *int                `json:"confidence,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       *time.Time          `json:"updated_at,omitempty"`
}

func toResponse(it *item.Item) itemResponse {
	return itemResponse{
		ID:              it.ID,
		Name:            it.Name,
		Category:        it.Category,
		Amount:          it.RawAmount,
		Frequency:       it.Frequency,
		MonthlyCost:     it.MonthlyCost(),
		BillingDay:      it.BillingDay,
		NextBillingDate: it.NextBillingDate,
		LastUsedDate:    it.LastUsedDate,
		SignUpDate:      it.SignUpDate,
		PausedUntil:     it.PausedUntil,
		ShiftWeekends:   it.ShiftWeekends,
		Confidence:      it.Confidence,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}

type listResponse struct {
	Items        []itemResponse  `json:"items"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
	AnnualTotal  decimal.Decimal `json:"annual_total"`
}

func toListResponse(items []*item.Item) listResponse {
	resp := listResponse{Items: make([]itemResponse, len(items))}
	for i, it := range items {
		resp.Items[i] = toResponse(it)
	}

	resp.MonthlyTotal, resp.AnnualTotal = item.Totals(items)

	return resp
}

type plannedResponse struct {
	ID         uuid.UUID           `json:"id"`
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	Date       *time.Time          `json:"date,omitempty"`
	Recurrence recurring.Frequency `json:"recurrence,omitempty"`
	StartDate  *time.Time          `json:"start_date,omitempty"`
	EndDate    *time.Time          `json:"end_date,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

func toPlannedResponse(p *item.Planned) plannedResponse {
	return plannedResponse{
		ID:         p.ID,
		Name:       p.Name,
		Amount:     p.Amount,
		Date:       p.Date,
		Recurrence: p.Recurrence,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		CreatedAt:  p.CreatedAt,
	}
}
