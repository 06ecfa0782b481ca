package customer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

const sessionCookie = "zenith_session"

type ctxKey int

const sessionKey ctxKey = 0

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// Router builds the customer-facing API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.session)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/menu", h.getMenu)
	r.Get("/menu/categories", h.getCategories)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Post("/items", h.addItem)
		r.Patch("/items/{itemID}", h.changeQuantity)
		r.Delete("/", h.clearCart)
	})

	r.Post("/orders", h.placeOrder)
	return r
}

// session assigns a cookie-backed session id and captures the ?table=
// parameter, the one piece of routing state the customer side needs.
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			sid = c.Value
		} else {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if table := r.URL.Query().Get("table"); table != "" {
			if err := h.svc.Cart().SetTable(r.Context(), sid, table); err != nil {
				h.log.Error("set_table_failed", zap.String("session", sid), zap.Error(err))
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sid)))
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sessionKey).(string)
	return sid
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items := h.svc.Menu(r.URL.Query().Get("category"))
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": h.svc.Categories()})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Cart().View(r.Context(), sessionID(r))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "cart_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table": c.Table,
		"lines": c.Lines,
		"total": c.Total(),
		"count": c.Count(),
	})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeProblem(w, http.StatusBadRequest, "bad_request", "item_id is required")
		return
	}
	if err := h.svc.Cart().Add(r.Context(), sessionID(r), req.ItemID); err != nil {
		writeProblem(w, http.StatusInternalServerError, "cart_error", err.Error())
		return
	}
	h.getCart(w, r)
}

func (h *Handler) changeQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Delta == 0 {
		writeProblem(w, http.StatusBadRequest, "bad_request", "non-zero delta is required")
		return
	}
	itemID := chi.URLParam(r, "itemID")
	if err := h.svc.Cart().ChangeQuantity(r.Context(), sessionID(r), itemID, req.Delta); err != nil {
		writeProblem(w, http.StatusInternalServerError, "cart_error", err.Error())
		return
	}
	h.getCart(w, r)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cart().Clear(r.Context(), sessionID(r)); err != nil {
		writeProblem(w, http.StatusInternalServerError, "cart_error", err.Error())
		return
	}
	h.getCart(w, r)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
	}

	order, err := h.svc.PlaceOrder(r.Context(), sessionID(r), req.Notes)
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		writeProblem(w, http.StatusUnprocessableEntity, "empty_cart", "add items to cart first")
	case errors.Is(err, domain.ErrDuplicateID):
		writeProblem(w, http.StatusConflict, "duplicate_order", "order id collision, please retry")
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "store_error", err.Error())
	default:
		writeJSON(w, http.StatusCreated, order)
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
