package plans

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "plans create", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "plans create", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	plan, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(w, r, "plans create", err)
		return
	}

	h.logWithRequest(r).Info("plans create: ok", slog.String("plan_id", plan.ID.Hex()))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Plan created successfully",
		"plan":    plan,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	planType := r.URL.Query().Get("planType")
	if planType != "" && planType != TypeCustomer && planType != TypeVendor {
		h.fail(w, r, "plans list", httpx.InvalidQuery("planType"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, planType)
	if err != nil {
		h.fail(w, r, "plans list", err)
		return
	}

	h.logWithRequest(r).Info("plans list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"plans":   items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "plans get", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	plan, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "plans get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"plan":    plan,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "plans update", err)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "plans update", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "plans update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	plan, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.fail(w, r, "plans update", err)
		return
	}

	h.logWithRequest(r).Info("plans update: ok", slog.String("plan_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Plan updated",
		"plan":    plan,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "plans delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(w, r, "plans delete", err)
		return
	}

	h.logWithRequest(r).Info("plans delete: ok", slog.String("plan_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Plan deleted successfully",
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
