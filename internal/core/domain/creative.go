package domain

// CreativeStatus is the serving state of a creative.
type CreativeStatus string

const (
	CreativeActive   CreativeStatus = "active"
	CreativeInactive CreativeStatus = "inactive"
)

// Creative represents an individual advertisement video.
type Creative struct {
	ID         int64          `json:"id"`
	CampaignID int64          `json:"campaign_id"`
	VideoURL   string         `json:"video_url"`
	Duration   int            `json:"duration"` // in seconds
	Format     string         `json:"format"`
	Status     CreativeStatus `json:"status"`
}

// Active reports whether the creative may be served.
func (c Creative) Active() bool {
	return c.Status == CreativeActive
}
