package vendors

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"convenz-admin/internal/httpx"
	"convenz-admin/internal/middleware"
	"convenz-admin/internal/transport"
	"convenz-admin/internal/validation"
	"github.com/go-chi/chi/v5"
)

const maxPageSize = 200

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
	expose  bool
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, expose bool) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
		expose:  expose,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := httpx.ParsePage(query, maxPageSize)
	if err != nil {
		h.fail(w, r, "vendors list", err)
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
		h.fail(w, r, "vendors list", err)
		return
	}

	h.logWithRequest(r).Info("vendors list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Vendor list fetched successfully",
		"count":   len(items),
		"total":   total,
		"page":    page.Page,
		"limit":   page.Limit,
		"vendors": items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "vendors get", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vendor, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "vendors get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"vendor":  vendor,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "vendors create", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "vendors create", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	vendor, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(w, r, "vendors create", err)
		return
	}

	h.logWithRequest(r).Info("vendors create: ok", slog.String("vendor_id", vendor.VendorID))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Vendor created successfully",
		"vendor":  vendor,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "vendors update", err)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "vendors update", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "vendors update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	vendor, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.fail(w, r, "vendors update", err)
		return
	}

	h.logWithRequest(r).Info("vendors update: ok", slog.String("vendor_id", vendor.VendorID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Vendor updated successfully",
		"vendor":  vendor,
	})
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "vendors block", err)
		return
	}

	var req BlockRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "vendors block", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "vendors block", err)
		return
	}
	block := *req.Block

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vendor, err := h.service.SetBlocked(ctx, id, block)
	if err != nil {
		h.fail(w, r, "vendors block", err)
		return
	}

	message := "Vendor unblocked successfully"
	if block {
		message = "Vendor blocked successfully"
	}
	h.logWithRequest(r).Info("vendors block: ok", slog.String("vendor_id", vendor.VendorID), slog.Bool("blocked", block))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
		"vendor":  vendor,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "vendors delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(w, r, "vendors delete", err)
		return
	}

	h.logWithRequest(r).Info("vendors delete: ok", slog.String("id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Vendor deleted successfully",
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
