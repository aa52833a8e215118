package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

// handleSyncNotify accepts a change notification from the management
// surface and queues a targeted cache sync.
func (h *Handler) handleSyncNotify(w http.ResponseWriter, r *http.Request) {
	var m domain.Mutation
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := h.notifier.Notify(m)
	if errors.Is(err, port.ErrInvalidMutation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("sync notify error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
