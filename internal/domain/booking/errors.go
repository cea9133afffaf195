package booking

import "errors"

// Sentinel errors for booking.
var (
	ErrInvalidRequest = errors.New("invalid booking request")
)
