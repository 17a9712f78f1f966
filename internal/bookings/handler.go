package bookings

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
	"go.mongodb.org/mongo-driver/bson/primitive"
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
		h.fail(w, r, "bookings list", err)
		return
	}

	filter := ListFilter{Status: query.Get("status")}
	switch filter.Status {
	case "", StatusPending, StatusConfirmed, StatusCompleted, StatusRejected:
	default:
		h.fail(w, r, "bookings list", httpx.InvalidQuery("status"))
		return
	}
	if raw := query.Get("vendorId"); raw != "" {
		vendorID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.fail(w, r, "bookings list", httpx.InvalidQuery("vendorId"))
			return
		}
		filter.VendorID = vendorID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, page.Limit, page.Skip())
	if err != nil {
		h.fail(w, r, "bookings list", err)
		return
	}

	h.logWithRequest(r).Info("bookings list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(items),
		"total":    total,
		"bookings": items,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "bookings get", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	booking, err := h.service.Get(ctx, id)
	if err != nil {
		h.fail(w, r, "bookings get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"booking": booking,
	})
}

// Create is also called by the consumer application, so unknown fields in
// the payload are ignored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSONLenient(r.Body, &req); err != nil {
		h.fail(w, r, "bookings create", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "bookings create", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	booking, err := h.service.Create(ctx, req)
	if err != nil {
		h.fail(w, r, "bookings create", err)
		return
	}

	h.logWithRequest(r).Info("bookings create: ok", slog.String("id", booking.ID.Hex()))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "bookings update", err)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "bookings update", httpx.ErrInvalidJSON)
		return
	}
	if err := h.val.Validate(req); err != nil {
		h.fail(w, r, "bookings update", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	booking, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.fail(w, r, "bookings update", err)
		return
	}

	h.logWithRequest(r).Info("bookings update: ok", slog.String("id", id.Hex()), slog.String("status", booking.BookingStatus))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Booking updated successfully",
		"booking": booking,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseObjectID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "bookings delete", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.fail(w, r, "bookings delete", err)
		return
	}

	h.logWithRequest(r).Info("bookings delete: ok", slog.String("id", id.Hex()))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Booking deleted successfully",
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
