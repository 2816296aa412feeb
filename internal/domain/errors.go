package domain

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound is returned when no profile metadata exists for a key.
var ErrProfileNotFound = errors.New("profile not found")

// ErrNoLocation is returned when no position is available to a locator.
var ErrNoLocation = errors.New("no location available")

// NormalizationError reports a raw event that could not be normalized into a
// CalendarEvent. The fetcher decides whether to drop, log, or surface these
// in aggregate; one bad record never aborts a batch.
type NormalizationError struct {
	EventID string
	Reason  string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize event %s: %s", e.EventID, e.Reason)
}
