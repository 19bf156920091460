package domain

import "errors"

var (
	// ErrInvalidActivity is returned for malformed activity payloads
	// (missing required field for its kind, negative duration, unknown kind).
	ErrInvalidActivity = errors.New("invalid activity")

	// ErrUnknownListing is returned when a referenced listing id does not
	// exist in the catalog at lookup time.
	ErrUnknownListing = errors.New("listing not found")
)
