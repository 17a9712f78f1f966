package admins

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

// NewHandler builds the admin handlers. expose controls whether internal
// error causes are echoed to clients.
func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, expose bool) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
		expose:  expose,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "admin login", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "admin login", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.service.Login(ctx, req)
	if err != nil {
		h.fail(w, r, "admin login", err)
		return
	}

	h.logWithRequest(r).Info("admin login: ok", slog.String("admin_id", res.Admin.ID.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login Successful",
		"token":   res.Token,
		"admin":   res.Admin,
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "admin register", "Admin registered successfully")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "admin create", "Admin created successfully")
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, op, message string) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, op, httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	admin, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	h.logWithRequest(r).Info(op+": ok", slog.String("admin_id", admin.ID.Hex()), slog.String("role", admin.Role))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": message,
		"admin":   admin,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		h.fail(w, r, "admin list", err)
		return
	}

	h.logWithRequest(r).Info("admin list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"admins":  items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "admin get", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	admin, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "admin get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admin":   admin,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "admin update", err)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "admin update", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "admin update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	admin, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.fail(w, r, "admin update", err)
		return
	}

	h.logWithRequest(r).Info("admin update: ok", slog.String("admin_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Admin updated successfully",
		"admin":   admin,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "admin delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(w, r, "admin delete", err)
		return
	}

	h.logWithRequest(r).Info("admin delete: ok", slog.String("admin_id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Admin deleted successfully",
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
