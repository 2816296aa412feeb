package services

import (
	"fmt"

	"nostrcal/internal/domain"
)

// UntitledEvent is the title given to events published without a title tag.
const UntitledEvent = "Untitled Event"

// NormalizeEvent maps a raw protocol event's tag set into a CalendarEvent.
// Tag lookup is first-match-wins per key; malformed tags (fewer than two
// elements) are skipped. Missing optional tags leave fields empty, except
// title, which defaults to UntitledEvent, and description, which falls back
// to the raw event's content body.
func NormalizeEvent(raw domain.RawEvent) (*domain.CalendarEvent, error) {
	var kind domain.EventKind
	switch raw.Kind() {
	case domain.RawKindDateBased:
		kind = domain.KindDateBased
	case domain.RawKindTimeBased:
		kind = domain.KindTimeBased
	default:
		return nil, &domain.NormalizationError{
			EventID: raw.ID(),
			Reason:  fmt.Sprintf("unsupported kind %d", raw.Kind()),
		}
	}

	tags := raw.Tags()
	ev := &domain.CalendarEvent{
		ID:         raw.ID(),
		AuthorKey:  raw.PubKey(),
		Kind:       kind,
		Title:      firstTagValue(tags, "title"),
		Location:   firstTagValue(tags, "location"),
		Image:      firstTagValue(tags, "image"),
		StartDate:  firstTagValue(tags, "start"),
		EndDate:    firstTagValue(tags, "end"),
		Geohash:    firstTagValue(tags, "g"),
		DedupeTag:  firstTagValue(tags, "d"),
		Categories: tagValues(tags, "t"),
		CreatedAt:  raw.CreatedAt(),
	}
	if ev.Title == "" {
		ev.Title = UntitledEvent
	}
	if desc, ok := lookupTag(tags, "description"); ok {
		ev.Description = desc
	} else {
		ev.Description = raw.Content()
	}
	return ev, nil
}

// lookupTag returns the value of the first well-formed tag with the given
// key, and whether one was found.
func lookupTag(tags [][]string, key string) (string, bool) {
	for _, tag := range tags {
		if len(tag) < 2 {
			continue
		}
		if tag[0] == key {
			return tag[1], true
		}
	}
	return "", false
}

func firstTagValue(tags [][]string, key string) string {
	v, _ := lookupTag(tags, key)
	return v
}

// tagValues collects the value of every well-formed tag with the given key,
// preserving source order. Duplicates are legal and kept.
func tagValues(tags [][]string, key string) []string {
	var values []string
	for _, tag := range tags {
		if len(tag) < 2 {
			continue
		}
		if tag[0] == key {
			values = append(values, tag[1])
		}
	}
	return values
}
