package services

import (
	"sort"
	"time"

	"nostrcal/internal/domain"
)

// RankEvents returns a new slice ordered by the given policy relative to now.
//
// Proximity mode puts future events strictly before past events regardless of
// magnitude; within a side, smaller distance from now wins. This surfaces
// what is imminent rather than pure calendar order.
//
// Chronological mode sorts future events ascending (soonest first) and
// appends past events descending (most recent past first).
//
// Events with a missing or unparsable start report an epoch-0 time, classify
// as past, and sink toward the end of either ordering.
func RankEvents(events []domain.CalendarEvent, now time.Time, mode domain.RankMode) []domain.CalendarEvent {
	ranked := make([]domain.CalendarEvent, len(events))
	copy(ranked, events)

	nowMs := now.UnixMilli()
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := ranked[i].EventTimeMillis(), ranked[j].EventTimeMillis()
		futureI, futureJ := ti > nowMs, tj > nowMs
		if futureI != futureJ {
			return futureI
		}
		if mode == domain.RankChronological {
			if futureI {
				return ti < tj
			}
			return ti > tj
		}
		return absInt64(ti-nowMs) < absInt64(tj-nowMs)
	})
	return ranked
}

// FilterUpcoming returns the events whose time is strictly after now. Events
// with unknown times classify as past and are dropped.
func FilterUpcoming(events []domain.CalendarEvent, now time.Time) []domain.CalendarEvent {
	nowMs := now.UnixMilli()
	upcoming := make([]domain.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.EventTimeMillis() > nowMs {
			upcoming = append(upcoming, ev)
		}
	}
	return upcoming
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
