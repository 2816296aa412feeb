package domain

import "context"

// Locator provides the caller's current position. Implementations may block
// on a device or provider query; callers should pass a bounded context.
type Locator interface {
	CurrentLocation(ctx context.Context) (Coordinate, error)
}
