package customers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"convenz-admin/internal/httpx"
	"convenz-admin/internal/middleware"
	"convenz-admin/internal/transport"
	"github.com/go-chi/chi/v5"
)

const maxPageSize = 200

type Handler struct {
	service *Service
	log     *slog.Logger
	expose  bool
}

func NewHandler(service *Service, log *slog.Logger, expose bool) *Handler {
	return &Handler{
		service: service,
		log:     log,
		expose:  expose,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := httpx.ParsePage(query, maxPageSize)
	if err != nil {
		h.fail(w, r, "customers list", err)
		return
	}
	filter := ListFilter{
		Status: query.Get("status"),
		Pack:   query.Get("pack"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page.Limit, page.Skip())
	if err != nil {
		h.fail(w, r, "customers list", err)
		return
	}

	h.logWithRequest(r).Info("customers list: ok", slog.Int("count", len(items)), slog.Int64("total", total))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    items,
		"total":   total,
		"page":    page.Page,
		"limit":   page.Limit,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "customers get", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	customer, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "customers get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"customer": customer,
	})
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, true)
}

func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.setBlocked(w, r, false)
}

func (h *Handler) setBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	op, message := "customers unblock", "Customer unblocked"
	if blocked {
		op, message = "customers block", "Customer blocked"
	}

	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	customer, err := h.service.SetBlocked(ctx, id, blocked)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	h.logWithRequest(r).Info(op+": ok", slog.String("customer_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  message,
		"customer": customer,
	})
}

// Sync is called by the consumer application, so unknown fields in the
// payload are ignored.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := httpx.DecodeJSONLenient(r.Body, &req); err != nil {
		h.fail(w, r, "customers sync", httpx.ErrInvalidJSON)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	customer, err := h.service.Sync(ctx, req)
	if err != nil {
		h.fail(w, r, "customers sync", err)
		return
	}

	h.logWithRequest(r).Info("customers sync: ok", slog.String("customer_id", customer.ID.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Customer synced successfully",
		"customer": customer,
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	transport.Fail(w, h.logWithRequest(r), op, err, h.expose)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
