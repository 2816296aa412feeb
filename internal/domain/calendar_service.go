package domain

import (
	"context"
	"time"
)

// RankMode selects the ordering policy for a ranked event list.
type RankMode int

const (
	// RankProximity orders future events strictly before past ones; within
	// each side, closest to now first. The default browsing order.
	RankProximity RankMode = iota
	// RankChronological orders future events ascending by time, then past
	// events descending (most recent first). Used for history views.
	RankChronological
)

// FetchOptions configures a calendar-event fetch.
type FetchOptions struct {
	// Author restricts the query to a single organizer when non-empty.
	Author string
	// Timeout bounds the external query; zero uses the service default.
	Timeout time.Duration
	// Limit caps the server-side result count; zero uses the service default.
	Limit int
	// Mode selects the ranking policy.
	Mode RankMode
	// IncludePast keeps events whose time is at or before now. Off by
	// default; history views turn it on.
	IncludePast bool
}

// CalendarService defines the calendar ingestion and ranking surface.
type CalendarService interface {
	// FetchCalendarEvents queries the event source for calendar-event kinds,
	// normalizes the raw records, and returns them ranked per opts.
	FetchCalendarEvents(ctx context.Context, opts FetchOptions) ([]CalendarEvent, error)
	// OrganizerName resolves a display name for an author key, falling back
	// to a truncated key while the profile is unloaded.
	OrganizerName(pubkey string) string
}
