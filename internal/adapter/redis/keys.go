package redisadapter

import "strconv"

// Key scheme of the fast cache. Every catalog key carries the same TTL.
const (
	// ActiveCampaignsKey is the sorted set of servable campaign ids scored by
	// remaining budget.
	ActiveCampaignsKey = "active_campaigns"
	// stagingKey receives the rebuilt ranked set before it is renamed over
	// ActiveCampaignsKey.
	stagingKey = "active_campaigns:staging"
)

func CampaignKey(id int64) string {
	return "campaign:" + strconv.FormatInt(id, 10)
}

func CreativeKey(id int64) string {
	return "creative:" + strconv.FormatInt(id, 10)
}

// CampaignCreativesKey is the set of creative ids owned by a campaign.
func CampaignCreativesKey(campaignID int64) string {
	return CampaignKey(campaignID) + ":creatives"
}

// RequestCounterKey is the pacing counter incremented on every fill.
func RequestCounterKey(campaignID int64) string {
	return CampaignKey(campaignID) + ":requests"
}
