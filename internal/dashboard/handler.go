package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"convenz-admin/internal/middleware"
	"convenz-admin/internal/transport"
)

const failedMessage = "Failed to fetch admin dashboard stats"

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

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		transport.FailWithMessage(w, h.logWithRequest(r), "dashboard stats", err, failedMessage, h.expose)
		return
	}

	h.logWithRequest(r).Info("dashboard stats: ok",
		slog.Int64("total_users", stats.TotalUsers),
		slog.Float64("total_revenue", stats.Revenue.TotalRevenue),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Admin dashboard stats fetched successfully",
		"data":    stats,
	})
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
