package nostrsrc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostrcal/internal/domain"
)

// Client adapts a go-nostr relay pool to the domain event and profile
// sources. One Client is safe for concurrent use; the pool multiplexes
// relay connections underneath.
type Client struct {
	pool   *nostr.SimplePool
	relays []string
	logger *slog.Logger
}

// New creates a Client querying the given relay URLs. ctx bounds the lifetime
// of the pool's relay connections.
func New(ctx context.Context, relays []string, logger *slog.Logger) *Client {
	return &Client{
		pool:   nostr.NewSimplePool(ctx),
		relays: relays,
		logger: logger,
	}
}

// FetchEvents runs one time-bounded query across all configured relays and
// returns the deduplicated raw events once every relay reports end-of-stored
// -events or ctx expires. Results arrive as a single batch, never a stream.
func (c *Client) FetchEvents(ctx context.Context, filter domain.EventFilter) ([]domain.RawEvent, error) {
	if len(c.relays) == 0 {
		return nil, errors.New("no relays configured")
	}
	f := nostr.Filter{
		Kinds: filter.Kinds,
		Limit: filter.Limit,
	}
	if filter.Author != "" {
		f.Authors = []string{filter.Author}
	}

	seen := make(map[string]bool)
	var out []domain.RawEvent
	for ie := range c.pool.SubManyEose(ctx, c.relays, nostr.Filters{f}) {
		if ie.Event == nil || seen[ie.ID] {
			continue
		}
		seen[ie.ID] = true
		out = append(out, rawEvent{ev: ie.Event})
	}
	if len(out) == 0 && ctx.Err() != nil {
		return nil, fmt.Errorf("relay query: %w", ctx.Err())
	}
	c.logger.Debug("relay query complete", "events", len(out), "relays", len(c.relays))
	return out, nil
}

// FetchProfile looks up the newest kind-0 metadata for a single pubkey and
// extracts a display name from its JSON content. display_name is preferred
// over name when both are present.
func (c *Client) FetchProfile(ctx context.Context, pubkey string) (domain.Profile, error) {
	f := nostr.Filter{
		Kinds:   []int{nostr.KindProfileMetadata},
		Authors: []string{pubkey},
		Limit:   1,
	}
	ie := c.pool.QuerySingle(ctx, c.relays, f)
	if ie == nil || ie.Event == nil {
		return domain.Profile{}, fmt.Errorf("%s: %w", domain.TruncateKey(pubkey), domain.ErrProfileNotFound)
	}
	var meta struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal([]byte(ie.Content), &meta); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile metadata: %w", err)
	}
	name := meta.DisplayName
	if name == "" {
		name = meta.Name
	}
	return domain.Profile{Name: name, Loaded: true}, nil
}

// rawEvent exposes a nostr event through the narrow surface the normalizer
// depends on.
type rawEvent struct {
	ev *nostr.Event
}

func (r rawEvent) ID() string      { return r.ev.ID }
func (r rawEvent) PubKey() string  { return r.ev.PubKey }
func (r rawEvent) Kind() int       { return r.ev.Kind }
func (r rawEvent) Content() string { return r.ev.Content }

func (r rawEvent) CreatedAt() time.Time { return r.ev.CreatedAt.Time() }

func (r rawEvent) Tags() [][]string {
	tags := make([][]string, 0, len(r.ev.Tags))
	for _, t := range r.ev.Tags {
		tags = append(tags, []string(t))
	}
	return tags
}
