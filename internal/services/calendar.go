package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nostrcal/internal/domain"
)

const (
	defaultFetchTimeout = 8 * time.Second
	defaultEventLimit   = 200
)

type calendarService struct {
	source   domain.EventSource
	profiles *ProfileResolver
	logger   *slog.Logger
	timeout  time.Duration
	limit    int
}

// NewCalendarService creates a CalendarService over the given event source
// and profile resolver. timeout and limit are the per-fetch defaults, used
// when FetchOptions leaves them zero.
func NewCalendarService(source domain.EventSource, profiles *ProfileResolver, logger *slog.Logger, timeout time.Duration, limit int) domain.CalendarService {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if limit <= 0 {
		limit = defaultEventLimit
	}
	return &calendarService{
		source:   source,
		profiles: profiles,
		logger:   logger,
		timeout:  timeout,
		limit:    limit,
	}
}

func (s *calendarService) FetchCalendarEvents(ctx context.Context, opts domain.FetchOptions) ([]domain.CalendarEvent, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = s.timeout
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = s.limit
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	filter := domain.EventFilter{
		Kinds:  []int{domain.RawKindDateBased, domain.RawKindTimeBased},
		Author: opts.Author,
		Limit:  limit,
	}
	raws, err := s.source.FetchEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar events: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		ev, err := NormalizeEvent(raw)
		if err != nil {
			dropped++
			s.logger.Debug("dropping event", "error", err)
			continue
		}
		events = append(events, *ev)
	}
	if dropped > 0 {
		s.logger.Warn("dropped events that failed normalization", "count", dropped)
	}

	events = dedupeReplaceable(events)

	now := time.Now()
	if !opts.IncludePast {
		events = FilterUpcoming(events, now)
	}
	events = RankEvents(events, now, opts.Mode)

	s.resolveOrganizers(ctx, events)
	return events, nil
}

func (s *calendarService) OrganizerName(pubkey string) string {
	return s.profiles.Name(pubkey)
}

// resolveOrganizers is best-effort: name lookups never affect the event list.
func (s *calendarService) resolveOrganizers(ctx context.Context, events []domain.CalendarEvent) {
	if s.profiles == nil {
		return
	}
	keys := make([]string, 0, len(events))
	for _, ev := range events {
		keys = append(keys, ev.AuthorKey)
	}
	s.profiles.Resolve(ctx, keys)
}

// dedupeReplaceable keeps only the newest publication of each logical event,
// identified by author plus dedupe tag. Events without a dedupe tag are never
// collapsed. Input order is preserved for the survivors.
func dedupeReplaceable(events []domain.CalendarEvent) []domain.CalendarEvent {
	type logicalKey struct {
		author string
		kind   domain.EventKind
		d      string
	}
	newest := make(map[logicalKey]time.Time, len(events))
	for _, ev := range events {
		if ev.DedupeTag == "" {
			continue
		}
		k := logicalKey{author: ev.AuthorKey, kind: ev.Kind, d: ev.DedupeTag}
		if ev.CreatedAt.After(newest[k]) {
			newest[k] = ev.CreatedAt
		}
	}
	out := make([]domain.CalendarEvent, 0, len(events))
	taken := make(map[logicalKey]bool, len(newest))
	for _, ev := range events {
		if ev.DedupeTag == "" {
			out = append(out, ev)
			continue
		}
		k := logicalKey{author: ev.AuthorKey, kind: ev.Kind, d: ev.DedupeTag}
		if !ev.CreatedAt.Equal(newest[k]) || taken[k] {
			continue
		}
		taken[k] = true
		out = append(out, ev)
	}
	return out
}
