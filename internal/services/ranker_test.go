package services

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrcal/internal/domain"
)

// timedEvent builds a time-based event starting at the given instant.
func timedEvent(id string, start time.Time) domain.CalendarEvent {
	return domain.CalendarEvent{
		ID:        id,
		Kind:      domain.KindTimeBased,
		StartDate: strconv.FormatInt(start.Unix(), 10),
	}
}

func eventIDs(events []domain.CalendarEvent) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}

func TestRankEvents_ProximityFutureBeforePast(t *testing.T) {
	now := time.Unix(1718460000, 0)
	events := []domain.CalendarEvent{
		timedEvent("past-1h", now.Add(-time.Hour)),
		timedEvent("future-1h", now.Add(time.Hour)),
	}

	ranked := RankEvents(events, now, domain.RankProximity)
	assert.Equal(t, []string{"future-1h", "past-1h"}, eventIDs(ranked))
}

func TestRankEvents_ProximityOrdersByDistanceWithinSide(t *testing.T) {
	now := time.Unix(1718460000, 0)
	events := []domain.CalendarEvent{
		timedEvent("future-7d", now.Add(7*24*time.Hour)),
		timedEvent("past-5m", now.Add(-5*time.Minute)),
		timedEvent("future-1h", now.Add(time.Hour)),
		timedEvent("past-3d", now.Add(-3*24*time.Hour)),
	}

	ranked := RankEvents(events, now, domain.RankProximity)
	assert.Equal(t, []string{"future-1h", "future-7d", "past-5m", "past-3d"}, eventIDs(ranked))
}

func TestRankEvents_ProximityFutureAlwaysFirstRegardlessOfMagnitude(t *testing.T) {
	now := time.Unix(1718460000, 0)
	// A far future event still beats a barely-past event.
	events := []domain.CalendarEvent{
		timedEvent("past-1m", now.Add(-time.Minute)),
		timedEvent("future-1y", now.Add(365*24*time.Hour)),
	}

	ranked := RankEvents(events, now, domain.RankProximity)
	assert.Equal(t, []string{"future-1y", "past-1m"}, eventIDs(ranked))
}

func TestRankEvents_Chronological(t *testing.T) {
	now := time.Unix(1718460000, 0)
	events := []domain.CalendarEvent{
		timedEvent("past-1h", now.Add(-time.Hour)),
		timedEvent("future-7d", now.Add(7*24*time.Hour)),
		timedEvent("past-3d", now.Add(-3*24*time.Hour)),
		timedEvent("future-1h", now.Add(time.Hour)),
	}

	ranked := RankEvents(events, now, domain.RankChronological)
	// Future ascending, then past descending (most recent first).
	assert.Equal(t, []string{"future-1h", "future-7d", "past-1h", "past-3d"}, eventIDs(ranked))
}

func TestRankEvents_UnparsableStartSinksToEnd(t *testing.T) {
	now := time.Unix(1718460000, 0)
	broken := domain.CalendarEvent{ID: "broken", Kind: domain.KindTimeBased, StartDate: "not-a-number"}
	untimed := domain.CalendarEvent{ID: "untimed", Kind: domain.KindTimeBased}
	events := []domain.CalendarEvent{
		broken,
		timedEvent("future-1h", now.Add(time.Hour)),
		untimed,
		timedEvent("past-1h", now.Add(-time.Hour)),
	}

	ranked := RankEvents(events, now, domain.RankProximity)
	require.Len(t, ranked, 4)
	assert.Equal(t, "future-1h", ranked[0].ID)
	assert.Equal(t, "past-1h", ranked[1].ID)
	// Epoch-0 fallbacks classify as past and sort farthest from now.
	assert.ElementsMatch(t, []string{"broken", "untimed"}, eventIDs(ranked[2:]))
}

func TestRankEvents_DoesNotModifyInput(t *testing.T) {
	now := time.Unix(1718460000, 0)
	events := []domain.CalendarEvent{
		timedEvent("past-1h", now.Add(-time.Hour)),
		timedEvent("future-1h", now.Add(time.Hour)),
	}

	_ = RankEvents(events, now, domain.RankProximity)
	assert.Equal(t, []string{"past-1h", "future-1h"}, eventIDs(events))
}

func TestFilterUpcoming(t *testing.T) {
	now := time.Unix(1718460000, 0)
	events := []domain.CalendarEvent{
		timedEvent("past", now.Add(-time.Hour)),
		timedEvent("exactly-now", now),
		timedEvent("future", now.Add(time.Hour)),
		{ID: "untimed", Kind: domain.KindTimeBased},
	}

	upcoming := FilterUpcoming(events, now)
	assert.Equal(t, []string{"future"}, eventIDs(upcoming))
}

func TestRankEvents_PairwiseOrderingInvariants(t *testing.T) {
	now := time.Unix(1718460000, 0)
	offsets := []time.Duration{
		-72 * time.Hour, -time.Hour, -time.Minute,
		time.Minute, time.Hour, 72 * time.Hour,
	}
	var events []domain.CalendarEvent
	for i, off := range offsets {
		events = append(events, timedEvent(fmt.Sprintf("ev-%d", i), now.Add(off)))
	}

	nowMs := now.UnixMilli()
	ranked := RankEvents(events, now, domain.RankProximity)
	for i := range ranked {
		for j := i + 1; j < len(ranked); j++ {
			ti, tj := ranked[i].EventTimeMillis(), ranked[j].EventTimeMillis()
			if ti > nowMs && tj <= nowMs {
				continue // future before past: ordered correctly by construction
			}
			require.False(t, ti <= nowMs && tj > nowMs,
				"past event %s ranked before future event %s", ranked[i].ID, ranked[j].ID)
			assert.LessOrEqual(t, absInt64(ti-nowMs), absInt64(tj-nowMs))
		}
	}
}
