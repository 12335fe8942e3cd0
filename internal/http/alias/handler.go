package alias

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/recur/internal/alias"
)

type Handler struct {
	svc *alias.Service
}

func NewHandler(svc *alias.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/resolve", h.resolve)
	r.Post("/", h.learn)
	r.Delete("/{id}", h.delete)
}

type aliasResponse struct {
	ID      uuid.UUID `json:"id"`
	Pattern string    `json:"pattern"`
	Name    string    `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]aliasResponse, len(aliases))
	for i, a := range aliases {
		resp[i] = aliasResponse{ID: a.ID, Pattern: a.Pattern, Name: a.Name}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type resolveResponse struct {
	Name string `json:"name"`
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw")
	if raw == "" {
		http.Error(w, "raw query parameter is required", http.StatusBadRequest)
		return
	}

	name, err := h.svc.Resolve(r.Context(), raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if name == "" {
		name = raw
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resolveResponse{Name: name}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	Pattern string `json:"pattern"`
	Name    string `json:"name"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.Pattern, req.Name); err != nil {
		if errors.Is(err, alias.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, alias.ErrNotFound) {
			http.Error(w, "alias not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
