package domain

import "errors"

// MaxRequestDuration is the longest ad slot, in seconds, a device may ask for.
const MaxRequestDuration = 600

// AdRequest describes an inbound ad request from a connected-TV device.
type AdRequest struct {
	DeviceID string `json:"device_id"`
	// Duration is the desired slot length in seconds. Zero means any.
	Duration int `json:"duration"`
}

// Validate rejects requests that cannot be served.
func (r AdRequest) Validate() error {
	if r.DeviceID == "" {
		return errors.New("device_id is required")
	}
	if r.Duration < 0 || r.Duration > MaxRequestDuration {
		return errors.New("duration out of range")
	}
	return nil
}
