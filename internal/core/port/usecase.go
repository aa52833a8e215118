package port

import (
	"context"

	"ctv-ads/internal/core/domain"
)

// AdUseCase selects an ad for a device. It is the primary port of the ad
// decision service.
type AdUseCase interface {
	// RequestAd returns the selected ad, or nil on no-fill. Infrastructure
	// failures are never returned; the only error is ErrInvalidRequest.
	RequestAd(ctx context.Context, req domain.AdRequest) (*AdResponse, error)
}

// AdResponse represents the selected ad details returned to the client.
// It is a DTO used by the HTTP layer and does not contain domain behaviour.
type AdResponse struct {
	CampaignID int64  `json:"campaign_id"`
	CreativeID int64  `json:"creative_id"`
	VideoURL   string `json:"video_url"`
	Duration   int    `json:"duration"`
	Format     string `json:"format"`
}

// ImpressionTracker accepts delivery events for batched persistence.
type ImpressionTracker interface {
	// Track validates and enqueues an impression. It returns
	// ErrInvalidImpression for malformed events.
	Track(ctx context.Context, imp domain.Impression) error
}

// CatalogNotifier accepts upstream change notifications for targeted sync.
type CatalogNotifier interface {
	// Notify enqueues a mutation. It returns ErrInvalidMutation for
	// notifications that name no known entity.
	Notify(m domain.Mutation) error
}

// StatsUseCase answers reporting queries from the rollup table.
type StatsUseCase interface {
	GetStats(ctx context.Context, req StatsReq) (*StatsResp, error)
	GetDailyStats(ctx context.Context, req StatsReq) ([]domain.DailyRollup, error)
}
