package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/recur/internal/export"
	"github.com/MrJamesThe3rd/recur/internal/item"
	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/items", h.items)
	r.Post("/entries", h.entries)
}

// items downloads tracked items; ?format=csv|xlsx, ?category=.
func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filter := item.ListFilter{}
	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = new(s)
	}

	var buf bytes.Buffer
	if err := h.svc.Items(r.Context(), filter, format, &buf); err != nil {
		slog.Error("failed to export items", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	send(w, format, &buf)
}

type entriesRequest struct {
	Entries []recurring.ReviewEntry `json:"entries"`
}

// entries downloads review entries that have not been confirmed yet.
func (h *Handler) entries(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req entriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, export.RowsFromEntries(req.Entries)); err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to export entries", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	send(w, format, &buf)
}

func send(w http.ResponseWriter, format export.Format, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", format.Filename(time.Now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
