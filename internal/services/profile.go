package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"nostrcal/internal/domain"
)

const defaultProfileBatchSize = 10

// ProfileResolver loads organizer display names into a shared cache in
// fixed-size batches. Fetches within a batch run concurrently and are awaited
// together before the next batch starts, keeping load on the external client
// bounded. A failed batch is logged and never aborts later batches.
type ProfileResolver struct {
	source    domain.ProfileSource
	cache     *domain.ProfileCache
	logger    *slog.Logger
	batchSize int
}

// NewProfileResolver creates a resolver over the given source and cache.
// batchSize <= 0 uses the default.
func NewProfileResolver(source domain.ProfileSource, cache *domain.ProfileCache, logger *slog.Logger, batchSize int) *ProfileResolver {
	if batchSize <= 0 {
		batchSize = defaultProfileBatchSize
	}
	return &ProfileResolver{
		source:    source,
		cache:     cache,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Resolve fetches profiles for every key not already loaded in the cache.
// Best-effort: failures are logged per batch and swallowed.
func (r *ProfileResolver) Resolve(ctx context.Context, pubkeys []string) {
	pending := r.pendingKeys(pubkeys)
	for start := 0; start < len(pending); start += r.batchSize {
		end := start + r.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		var g errgroup.Group
		for _, pk := range pending[start:end] {
			pk := pk
			g.Go(func() error {
				p, err := r.source.FetchProfile(ctx, pk)
				if err != nil {
					return err
				}
				r.cache.Upsert(pk, p)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			r.logger.Debug("profile batch lookup failed", "error", err)
		}
	}
}

// Name returns the display name for a key, falling back to a truncated key
// while the profile is unloaded.
func (r *ProfileResolver) Name(pubkey string) string {
	return r.cache.DisplayName(pubkey)
}

// pendingKeys returns the unique keys whose profiles are not loaded yet,
// preserving first-seen order.
func (r *ProfileResolver) pendingKeys(pubkeys []string) []string {
	seen := make(map[string]bool, len(pubkeys))
	var pending []string
	for _, pk := range pubkeys {
		if pk == "" || seen[pk] {
			continue
		}
		seen[pk] = true
		if p, ok := r.cache.Get(pk); ok && p.Loaded {
			continue
		}
		pending = append(pending, pk)
	}
	return pending
}
