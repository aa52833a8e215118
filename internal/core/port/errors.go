package port

import "errors"

var (
	// ErrInvalidRequest marks an ad request rejected at the boundary.
	ErrInvalidRequest = errors.New("invalid ad request")
	// ErrInvalidImpression marks a delivery event rejected before enqueueing.
	ErrInvalidImpression = errors.New("invalid impression")
	// ErrInvalidMutation marks a change notification that names no entity.
	ErrInvalidMutation = errors.New("invalid mutation")
)
