package domain

import (
	"cmp"
	"slices"
	"time"
)

// DailyRollup is the pre-aggregated impression counter of one campaign on
// one UTC calendar day.
type DailyRollup struct {
	CampaignID  int64     `json:"campaign_id"`
	Date        time.Time `json:"date"`
	Impressions int64     `json:"impressions"`
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RollupImpressions counts impressions per (campaign, day). The result is
// sorted by campaign then date so upserts touch rows in a stable order.
func RollupImpressions(batch []Impression) []DailyRollup {
	type key struct {
		campaign int64
		day      time.Time
	}
	counts := make(map[key]int64)
	for _, imp := range batch {
		counts[key{imp.CampaignID, Day(imp.ServedAt)}]++
	}

	rollups := make([]DailyRollup, 0, len(counts))
	for k, n := range counts {
		rollups = append(rollups, DailyRollup{CampaignID: k.campaign, Date: k.day, Impressions: n})
	}
	slices.SortFunc(rollups, func(a, b DailyRollup) int {
		if c := cmp.Compare(a.CampaignID, b.CampaignID); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	return rollups
}
