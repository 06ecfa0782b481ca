package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

type Handler struct {
	ctrl *Controller
}

func NewHandler(ctrl *Controller) *Handler { return &Handler{ctrl: ctrl} }

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/orders", h.listOrders)
	r.Post("/orders/{orderID}/status", h.advance)
	return r
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter != "" && filter != FilterAll {
		if _, err := domain.ParseStatus(filter); err != nil {
			writeProblem(w, http.StatusBadRequest, "unknown_status", "unknown status filter: "+filter)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": h.ctrl.Orders(filter)})
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeProblem(w, http.StatusBadRequest, "bad_request", "status is required")
		return
	}
	next, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "unknown_status", err.Error())
		return
	}

	orderID := chi.URLParam(r, "orderID")
	err = h.ctrl.Advance(r.Context(), orderID, next)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "no active order "+orderID)
	case errors.Is(err, domain.ErrIllegalTransition):
		writeProblem(w, http.StatusConflict, "illegal_transition", err.Error())
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "store_error", err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": next})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
