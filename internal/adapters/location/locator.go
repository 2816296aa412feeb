package location

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"nostrcal/internal/domain"
)

// Static is a Locator with a fixed position, e.g. from flags or config.
type Static struct {
	Coord domain.Coordinate
}

func (s Static) CurrentLocation(_ context.Context) (domain.Coordinate, error) {
	if !s.Coord.Valid() {
		return domain.Coordinate{}, domain.ErrNoLocation
	}
	return s.Coord, nil
}

// Memoized wraps a Locator so that concurrent callers share a single
// in-flight position request and later callers reuse the first result.
type Memoized struct {
	inner domain.Locator
	group singleflight.Group

	mu     sync.RWMutex
	cached *domain.Coordinate
}

// NewMemoized wraps inner with request sharing and result caching.
func NewMemoized(inner domain.Locator) *Memoized {
	return &Memoized{inner: inner}
}

func (m *Memoized) CurrentLocation(ctx context.Context) (domain.Coordinate, error) {
	m.mu.RLock()
	cached := m.cached
	m.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	v, err, _ := m.group.Do("location", func() (any, error) {
		coord, err := m.inner.CurrentLocation(ctx)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.cached = &coord
		m.mu.Unlock()
		return coord, nil
	})
	if err != nil {
		return domain.Coordinate{}, err
	}
	return v.(domain.Coordinate), nil
}
