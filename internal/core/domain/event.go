package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxClockSkew is how far in the future a served_at timestamp may lie before
// the event is considered malformed.
const MaxClockSkew = 5 * time.Minute

var (
	errMissingCreative = errors.New("creative_id must be positive")
	errMissingCampaign = errors.New("campaign_id must be positive")
	errFutureServedAt  = errors.New("served_at is in the future")
)

// Impression is a record of an ad being shown on a device.
type Impression struct {
	ID         uuid.UUID         `json:"id"`
	CreativeID int64             `json:"creative_id"`
	CampaignID int64             `json:"campaign_id"`
	DeviceID   string            `json:"device_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	ServedAt   time.Time         `json:"served_at"`
}

// Normalize validates the impression and fills server-side defaults: a fresh
// id and, when missing, a served_at of now. Timestamps are stored in UTC.
func (i *Impression) Normalize(now time.Time) error {
	if i.CreativeID <= 0 {
		return errMissingCreative
	}
	if i.CampaignID <= 0 {
		return errMissingCampaign
	}
	if i.ServedAt.IsZero() {
		i.ServedAt = now
	}
	if i.ServedAt.After(now.Add(MaxClockSkew)) {
		return errFutureServedAt
	}
	i.ServedAt = i.ServedAt.UTC()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
