package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ctv-ads/internal/core/domain"
	"ctv-ads/internal/core/port"
)

// impressionRequest is the client payload. The event id is always assigned
// by the server.
type impressionRequest struct {
	CreativeID int64             `json:"creative_id"`
	CampaignID int64             `json:"campaign_id"`
	DeviceID   string            `json:"device_id"`
	Metadata   map[string]string `json:"metadata"`
	ServedAt   *time.Time        `json:"served_at"`
}

// handleImpression enqueues a delivery event and answers 202 Accepted with
// the assigned event id.
func (h *Handler) handleImpression(w http.ResponseWriter, r *http.Request) {
	var req impressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	imp := domain.Impression{
		ID:         uuid.New(),
		CreativeID: req.CreativeID,
		CampaignID: req.CampaignID,
		DeviceID:   req.DeviceID,
		Metadata:   req.Metadata,
	}
	if req.ServedAt != nil {
		imp.ServedAt = *req.ServedAt
	}

	err := h.tracker.Track(r.Context(), imp)
	if errors.Is(err, port.ErrInvalidImpression) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.Error("track impression error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusAccepted, map[string]string{"id": imp.ID.String()})
}
