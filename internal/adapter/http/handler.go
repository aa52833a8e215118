package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ctv-ads/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// Routes are registered on a chi.Router for convenient method handling.
type Handler struct {
	ads      port.AdUseCase
	tracker  port.ImpressionTracker
	notifier port.CatalogNotifier
	stats    port.StatsUseCase
	logger   *slog.Logger
	router   chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(
	ads port.AdUseCase,
	tracker port.ImpressionTracker,
	notifier port.CatalogNotifier,
	stats port.StatsUseCase,
	logger *slog.Logger,
) *Handler {
	h := &Handler{ads: ads, tracker: tracker, notifier: notifier, stats: stats, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ad/request", h.handleAdRequest)
		r.Post("/impressions", h.handleImpression)
		r.Post("/sync/notify", h.handleSyncNotify)
		r.Get("/stats/overview", h.handleStatsOverview)
		r.Get("/stats/daily", h.handleStatsDaily)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// encoding should rarely fail; the status is already written
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
