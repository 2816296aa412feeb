package domain

import (
	"context"
	"time"
)

// RawEvent is the minimal surface of a raw protocol event the normalizer
// depends on. Keeping this narrow lets the pipeline be tested with
// hand-built fixtures instead of live protocol objects.
type RawEvent interface {
	ID() string
	PubKey() string
	Kind() int
	Content() string
	CreatedAt() time.Time
	// Tags returns the ordered tag list; each tag is an ordered list of
	// strings whose first element is the tag key.
	Tags() [][]string
}

// EventFilter restricts an event-source query.
type EventFilter struct {
	Kinds  []int
	Author string // restrict to one author when non-empty
	Limit  int    // server-side result cap
}

// EventSource defines the sole ingestion boundary to the protocol client.
type EventSource interface {
	FetchEvents(ctx context.Context, filter EventFilter) ([]RawEvent, error)
}
