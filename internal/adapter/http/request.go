package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

// handleAdRequest selects an ad for a device. On success it returns the
// chosen creative as JSON. No-fill, including a degraded cache, returns
// HTTP 204 No Content. Malformed requests produce HTTP 400.
func (h *Handler) handleAdRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.AdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	resp, err := h.ads.RequestAd(r.Context(), req)
	if errors.Is(err, port.ErrInvalidRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("request ad error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}
