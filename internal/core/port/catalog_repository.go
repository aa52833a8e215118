package port

import (
	"context"

	"ctv-ads/internal/core/domain"
)

// CatalogRepository reads campaigns and creatives from the system of record.
// It is an outbound port used only by the cache synchronizer.
type CatalogRepository interface {
	// ListCampaigns returns every campaign regardless of status.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	// ListCreatives returns every creative regardless of status.
	ListCreatives(ctx context.Context) ([]domain.Creative, error)
	// GetCampaign returns a campaign by id, or nil when it does not exist.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// GetCreative returns a creative by id, or nil when it does not exist.
	GetCreative(ctx context.Context, id int64) (*domain.Creative, error)
	// ListCampaignCreatives returns the creatives owned by one campaign.
	ListCampaignCreatives(ctx context.Context, campaignID int64) ([]domain.Creative, error)
}
