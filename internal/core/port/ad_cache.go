package port

import (
	"context"

	"ctv-ads/internal/core/domain"
)

// AdCache is the read side of the fast cache used by the decision service.
// Misses are reported as nil values, not errors.
type AdCache interface {
	// RankedCampaignIDs returns up to limit campaign ids starting at offset,
	// ordered by remaining budget, highest first. A non-positive limit
	// returns everything from offset on.
	RankedCampaignIDs(ctx context.Context, offset, limit int) ([]int64, error)
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// CampaignCreatives returns the cached creatives of a campaign. Ids whose
	// record has expired are skipped.
	CampaignCreatives(ctx context.Context, campaignID int64) ([]domain.Creative, error)
	// IncrRequestCounter bumps the pacing counter of a campaign.
	IncrRequestCounter(ctx context.Context, campaignID int64) error
}

// CacheWriter is the write side of the fast cache. The synchronizer is its
// only caller.
type CacheWriter interface {
	// ReplaceCatalog rewrites every campaign and creative record, rebuilds the
	// ranked set from ranked and refreshes all TTLs in one pipeline.
	ReplaceCatalog(ctx context.Context, snap CatalogSnapshot) error
	// PutCampaign writes one campaign record and sets its ranked-set
	// membership according to ranked.
	PutCampaign(ctx context.Context, c domain.Campaign, ranked bool) error
	// RemoveCampaign drops a campaign, its creative set and creative records.
	RemoveCampaign(ctx context.Context, id int64) error
	PutCreative(ctx context.Context, c domain.Creative) error
	RemoveCreative(ctx context.Context, id int64) error
}

// CatalogSnapshot is the full catalog read in one synchronization cycle.
type CatalogSnapshot struct {
	Campaigns []domain.Campaign
	Creatives []domain.Creative
	// Ranked holds the ids of campaigns that belong in the active set.
	Ranked []int64
}
