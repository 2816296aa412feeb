package domain

import (
	"strconv"
	"time"
)

// Raw protocol kinds for NIP-52 calendar events.
const (
	RawKindDateBased = 31922
	RawKindTimeBased = 31923
)

// EventKind discriminates how StartDate and EndDate are interpreted.
type EventKind int

const (
	// KindDateBased marks whole-day events; StartDate/EndDate hold ISO
	// calendar dates (YYYY-MM-DD).
	KindDateBased EventKind = iota
	// KindTimeBased marks point-or-interval events; StartDate/EndDate hold
	// Unix timestamps in seconds, as strings.
	KindTimeBased
)

func (k EventKind) String() string {
	if k == KindDateBased {
		return "date-based"
	}
	return "time-based"
}

// CalendarEvent represents a normalized calendar event derived from a raw
// protocol event's tag set. Values are immutable once normalized; an edit is
// published as a new raw event carrying the same DedupeTag.
type CalendarEvent struct {
	ID          string    `json:"id"`
	AuthorKey   string    `json:"author_key"`
	Kind        EventKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Image       string    `json:"image"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Geohash     string    `json:"geohash"`
	Categories  []string  `json:"categories"`
	DedupeTag   string    `json:"dedupe_tag"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventTime returns the event's start instant. Date-based events resolve to
// noon UTC on the start date so the calendar day does not shift across
// timezones. A missing or unparsable start resolves to the Unix epoch, which
// always classifies as past and sinks to the end of proximity-ordered lists.
func (e *CalendarEvent) EventTime() time.Time {
	if e.StartDate == "" {
		return time.UnixMilli(0)
	}
	switch e.Kind {
	case KindDateBased:
		d, err := time.Parse("2006-01-02", e.StartDate)
		if err != nil {
			return time.UnixMilli(0)
		}
		return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	case KindTimeBased:
		sec, err := strconv.ParseInt(e.StartDate, 10, 64)
		if err != nil {
			return time.UnixMilli(0)
		}
		return time.Unix(sec, 0)
	}
	return time.UnixMilli(0)
}

// EventTimeMillis returns the start instant as Unix milliseconds, with the
// same epoch-0 fallback as EventTime.
func (e *CalendarEvent) EventTimeMillis() int64 {
	return e.EventTime().UnixMilli()
}
