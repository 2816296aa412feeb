package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	gh "github.com/mmcloughlin/geohash"

	"nostrcal/internal/domain"
)

const earthRadiusKm = 6371.0

// geohashAlphabet is the base32 character set of the geohash encoding.
const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

var (
	decimalPairRe = regexp.MustCompile(`(-?\d{1,3}\.\d+)\s*,\s*(-?\d{1,3}\.\d+)`)
	geoURIRe      = regexp.MustCompile(`geo:(-?\d{1,3}(?:\.\d+)?),(-?\d{1,3}(?:\.\d+)?)`)
	parenPairRe   = regexp.MustCompile(`\(\s*(-?\d{1,3}(?:\.\d+)?)\s*,\s*(-?\d{1,3}(?:\.\d+)?)\s*\)`)
)

// ParseCoordinate resolves an event's position, first from its geohash tag,
// then from free-text patterns in the location string: a plain "lat,lng"
// decimal pair, a geo: URI, then a parenthesized pair. Every candidate is
// bounds-checked before acceptance; an invalid candidate falls through to the
// next pattern. Returns nil when nothing resolves.
func ParseCoordinate(ev *domain.CalendarEvent) *domain.Coordinate {
	if c := decodeGeohash(ev.Geohash); c != nil {
		return c
	}
	for _, re := range []*regexp.Regexp{decimalPairRe, geoURIRe, parenPairRe} {
		m := re.FindStringSubmatch(ev.Location)
		if m == nil {
			continue
		}
		if c := parsePair(m[1], m[2]); c != nil {
			return c
		}
	}
	return nil
}

func decodeGeohash(hash string) *domain.Coordinate {
	if hash == "" {
		return nil
	}
	for _, r := range strings.ToLower(hash) {
		if !strings.ContainsRune(geohashAlphabet, r) {
			return nil
		}
	}
	lat, lng := gh.Decode(strings.ToLower(hash))
	c := domain.Coordinate{Latitude: lat, Longitude: lng}
	if !c.Valid() {
		return nil
	}
	return &c
}

func parsePair(latStr, lngStr string) *domain.Coordinate {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil
	}
	c := domain.Coordinate{Latitude: lat, Longitude: lng}
	if !c.Valid() {
		return nil
	}
	return &c
}

// DistanceKm returns the great-circle distance between two coordinates using
// the haversine formula. Adequate precision given geohash or hand-entered
// source coordinates.
func DistanceKm(a, b domain.Coordinate) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// LocatedEvent pairs an event with its resolved coordinate and distance from
// the ranking origin.
type LocatedEvent struct {
	Event      domain.CalendarEvent
	Coordinate domain.Coordinate
	DistanceKm float64
}

// RankByDistance drops events with no resolvable coordinate and orders the
// rest ascending by distance from origin. It never fabricates a coordinate.
func RankByDistance(events []domain.CalendarEvent, origin domain.Coordinate) []LocatedEvent {
	located := make([]LocatedEvent, 0, len(events))
	for _, ev := range events {
		c := ParseCoordinate(&ev)
		if c == nil {
			continue
		}
		located = append(located, LocatedEvent{
			Event:      ev,
			Coordinate: *c,
			DistanceKm: DistanceKm(origin, *c),
		})
	}
	sort.SliceStable(located, func(i, j int) bool {
		return located[i].DistanceKm < located[j].DistanceKm
	})
	return located
}

// FormatDistance renders a distance with tiered precision: meters under 1 km,
// one decimal up to 10 km, whole kilometers beyond.
func FormatDistance(km float64) string {
	switch {
	case km < 1:
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	case km < 10:
		return fmt.Sprintf("%.1f km", km)
	default:
		return fmt.Sprintf("%d km", int(math.Round(km)))
	}
}
