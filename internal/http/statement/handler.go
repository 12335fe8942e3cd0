package statement

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
	"github.com/MrJamesThe3rd/recur/internal/scan"
)

const maxUploadSize = 20 << 20

type Handler struct {
	scanSvc *scan.Service
	itemSvc *item.Service
}

func NewHandler(scanSvc *scan.Service, itemSvc *item.Service) *Handler {
	return &Handler{scanSvc: scanSvc, itemSvc: itemSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Post("/text", h.text)
	r.Post("/confirm", h.confirm)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var format document.Format
	if f := r.FormValue("format"); f != "" {
		format, err = document.ParseFormat(f)
	} else {
		format, err = document.FormatOf(header.Filename)
	}

	if err != nil {
		writeError(w, err)
		return
	}

	rep, err := h.scanSvc.Scan(r.Context(), format, file)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rep); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *Handler) text(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := h.scanSvc.ScanText(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(rep); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// entryDTO is a reviewed entry as the reviewer submits it.
type entryDTO struct {
	recurring.ParsedResult
	BillingDay    *int       `json:"billing_day,omitempty"`
	SignUpDate    *time.Time `json:"sign_up_date,omitempty"`
	ShiftWeekends bool       `json:"shift_weekends,omitempty"`
}

type confirmRequest struct {
	Entries []entryDTO `json:"entries"`
}

type skippedDTO struct {
	Name       string `json:"name"`
	ExistingID string `json:"existing_id"`
	Existing   string `json:"existing_name"`
}

type confirmResponse struct {
	Created []itemDTO    `json:"created"`
	Skipped []skippedDTO `json:"skipped"`
}

type itemDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Frequency   recurring.Frequency `json:"frequency"`
	MonthlyCost string              `json:"monthly_cost"`
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]item.CreateParams, 0, len(req.Entries))
	for _, e := range req.Entries {
		p := item.ParamsFromResult(e.ParsedResult)
		p.BillingDay = e.BillingDay
		p.SignUpDate = e.SignUpDate
		p.ShiftWeekends = e.ShiftWeekends

		params = append(params, p)
	}

	res, err := h.itemSvc.Confirm(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := confirmResponse{
		Created: make([]itemDTO, 0, len(res.Created)),
		Skipped: make([]skippedDTO, 0, len(res.Skipped)),
	}

	for _, it := range res.Created {
		resp.Created = append(resp.Created, itemDTO{
			ID:          it.ID.String(),
			Name:        it.Name,
			Category:    it.Category,
			Frequency:   it.Frequency,
			MonthlyCost: it.MonthlyCost().StringFixed(2),
		})
	}

	for _, s := range res.Skipped {
		resp.Skipped = append(resp.Skipped, skippedDTO{
			Name:       s.Incoming.Name,
			ExistingID: s.Existing.ID.String(),
			Existing:   s.Existing.Name,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps scan and confirm failures onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrUnknownFormat), errors.Is(err, item.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, document.ErrExtractionFailed):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("statement request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
