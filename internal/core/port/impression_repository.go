package port

import (
	"context"
	"time"

	"ctv-ads/internal/core/domain"
)

// ImpressionRepository durably stores delivery events. SaveBatch must insert
// the events and upsert their daily rollups in one transaction: either both
// are committed or neither is.
type ImpressionRepository interface {
	SaveBatch(ctx context.Context, batch []domain.Impression) error
}

// StatsRepository reads rollup rows for reporting.
type StatsRepository interface {
	GetDailyStats(ctx context.Context, req StatsReq) ([]domain.DailyRollup, error)
}

// StatsReq selects rollup rows in an inclusive date range, optionally for a
// single campaign.
type StatsReq struct {
	From       time.Time
	To         time.Time
	CampaignID *int64
}

// StatsResp contains the impressions summed over a StatsReq.
type StatsResp struct {
	Impressions int64 `json:"impressions"`
	Days        int   `json:"days"`
}
