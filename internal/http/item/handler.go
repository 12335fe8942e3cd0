package item

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

const maxCalendarMonths = 24

type Handler struct {
	svc *item.Service
}

func NewHandler(svc *item.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/pause", h.pause)
}

// PlannedRoutes serves planned expenses.
func (h *Handler) PlannedRoutes(r chi.Router) {
	r.Post("/", h.createPlanned)
	r.Get("/", h.listPlanned)
	r.Delete("/{id}", h.deletePlanned)
}

// CalendarRoutes serves month views.
func (h *Handler) CalendarRoutes(r chi.Router) {
	r.Get("/", h.calendar)
}

type createItemRequest struct {
	Name            string              `json:"name"`
	Category        string              `json:"category"`
	Amount          decimal.Decimal     `json:"amount"`
	Frequency       recurring.Frequency `json:"frequency"`
	BillingDay      *int                `json:"billing_day,omitempty"`
	NextBillingDate *time.Time          `json:"next_billing_date,omitempty"`
	LastUsedDate    *time.Time          `json:"last_used_date,omitempty"`
	SignUpDate      *time.Time          `json:"sign_up_date,omitempty"`
	ShiftWeekends   bool                `json:"shift_weekends"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	it, err := h.svc.Create(r.Context(), item.CreateParams{
		Name:            req.Name,
		Category:        req.Category,
		Amount:          req.Amount,
		Frequency:       req.Frequency,
		BillingDay:      req.BillingDay,
		NextBillingDate: req.NextBillingDate,
		LastUsedDate:    req.LastUsedDate,
		SignUpDate:      req.SignUpDate,
		ShiftWeekends:   req.ShiftWeekends,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(it)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := item.ListFilter{}

	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = new(s)
	}

	if s := r.URL.Query().Get("frequency"); s != "" {
		f, err := recurring.ParseFrequency(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.Frequency = new(f)
	}

	items, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toListResponse(items)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	it, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(it)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateItemRequest struct {
	Name            *string              `json:"name,omitempty"`
	Category        *string              `json:"category,omitempty"`
	Amount          *decimal.Decimal     `json:"amount,omitempty"`
	Frequency       *recurring.Frequency `json:"frequency,omitempty"`
	BillingDay      *int                 `json:"billing_day,omitempty"`
	NextBillingDate *time.Time           `json:"next_billing_date,omitempty"`
	SignUpDate      *time.Time           `json:"sign_up_date,omitempty"`
	ShiftWeekends   *bool                `json:"shift_weekends,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	it, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil {
		it.Name = *req.Name
	}

	if req.Category != nil {
		it.Category = *req.Category
	}

	if req.Amount != nil {
		it.RawAmount = req.Amount.Round(2)
	}

	if req.Frequency != nil {
		f, err := recurring.ParseFrequency(string(*req.Frequency))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		it.Frequency = f
	}

	if req.BillingDay != nil {
		it.BillingDay = req.BillingDay
	}

	if req.NextBillingDate != nil {
		it.NextBillingDate = req.NextBillingDate
	}

	if req.SignUpDate != nil {
		it.SignUpDate = req.SignUpDate
	}

	if req.ShiftWeekends != nil {
		it.ShiftWeekends = *req.ShiftWeekends
	}

	if err := h.svc.Update(r.Context(), it); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(it)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type pauseRequest struct {
	Until *time.Time `json:"until"`
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Pause(r.Context(), id, req.Until); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createPlannedRequest struct {
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	Date       *time.Time          `json:"date,omitempty"`
	Recurrence recurring.Frequency `json:"recurrence,omitempty"`
	StartDate  *time.Time          `json:"start_date,omitempty"`
	EndDate    *time.Time          `json:"end_date,omitempty"`
}

func (h *Handler) createPlanned(w http.ResponseWriter, r *http.Request) {
	var req createPlannedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p := &item.Planned{
		Name:       req.Name,
		Amount:     req.Amount,
		Date:       req.Date,
		Recurrence: req.Recurrence,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}

	if err := h.svc.CreatePlanned(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toPlannedResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listPlanned(w http.ResponseWriter, r *http.Request) {
	planned, err := h.svc.ListPlanned(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]plannedResponse, len(planned))
	for i, p := range planned {
		resp[i] = toPlannedResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deletePlanned(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeletePlanned(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// calendar renders ?from=YYYY-MM (default: this month) for ?months=N
// (default 1). ?forward_only=true blanks months before the current one.
func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := item.CalendarParams{From: billing.MonthOf(time.Now()), Months: 1}

	if s := q.Get("from"); s != "" {
		m, err := billing.ParseMonth(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params.From = m
	}

	if s := q.Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxCalendarMonths {
			http.Error(w, "months must be between 1 and 24", http.StatusBadRequest)
			return
		}

		params.Months = n
	}

	params.ForwardOnly = q.Get("forward_only") == "true"

	views, err := h.svc.Calendar(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(views); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, item.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("item request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
