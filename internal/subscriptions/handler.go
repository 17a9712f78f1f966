package subscriptions

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ListFilter{Pack: query.Get("pack")}
	if raw := query.Get("status"); raw != "" {
		status, err := parseStatusInput(raw)
		if err != nil {
			h.fail(w, r, "subscriptions list", err)
			return
		}
		filter.Status = status
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.List(ctx, filter)
	if err != nil {
		h.fail(w, r, "subscriptions list", err)
		return
	}

	h.logWithRequest(r).Info("subscriptions list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"total":   len(items),
		"data":    items,
	})
}

func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.service.ForUser(ctx, chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, r, "subscriptions user", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"subscription": sub,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "subscriptions get", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sub, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "subscriptions get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"subscription": sub,
	})
}

func (h *Handler) GetWithPlan(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "subscriptions get with plan", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.service.GetWithPlan(ctx, id)
	if err != nil {
		h.fail(w, r, "subscriptions get with plan", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"subscription": res.Subscription,
		"plan":         res.Plan,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "subscriptions create", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "subscriptions create", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	sub, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(w, r, "subscriptions create", err)
		return
	}

	h.logWithRequest(r).Info("subscriptions create: ok",
		slog.String("subscription_id", sub.ID.Hex()),
		slog.String("user_id", sub.UserID.String()),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"message":      "Subscription created successfully",
		"subscription": sub,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "subscriptions update", err)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "subscriptions update", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "subscriptions update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	sub, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.fail(w, r, "subscriptions update", err)
		return
	}

	h.logWithRequest(r).Info("subscriptions update: ok", slog.String("subscription_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      "Subscription updated successfully",
		"subscription": sub,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "subscriptions delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(w, r, "subscriptions delete", err)
		return
	}

	h.logWithRequest(r).Info("subscriptions delete: ok", slog.String("subscription_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Subscription deleted successfully",
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
