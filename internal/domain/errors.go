package domain

import "errors"

var (
	// ErrFeedUnavailable indicates the market feed could not be reached or
	// returned an unusable response. The current cycle is skipped.
	ErrFeedUnavailable = errors.New("market feed unavailable")

	// ErrEmptySnapshot indicates the feed responded but carried zero usable
	// pairs. Treated exactly like ErrFeedUnavailable.
	ErrEmptySnapshot = errors.New("empty market snapshot")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
