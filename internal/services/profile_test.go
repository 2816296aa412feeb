package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nostrcal/internal/domain"
)

// countingProfileSource tracks the maximum number of concurrent fetches.
type countingProfileSource struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    int
	fail     map[string]bool
}

func (c *countingProfileSource) FetchProfile(ctx context.Context, pubkey string) (domain.Profile, error) {
	c.mu.Lock()
	c.calls++
	c.inFlight++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	fail := c.fail[pubkey]
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	if fail {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return domain.Profile{Name: "name-" + pubkey, Loaded: true}, nil
}

func TestProfileResolver_LoadsAllKeys(t *testing.T) {
	cache := domain.NewProfileCache()
	source := &countingProfileSource{}
	resolver := NewProfileResolver(source, cache, discardLogger(), 3)

	keys := []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7"}
	resolver.Resolve(context.Background(), keys)

	for _, k := range keys {
		p, ok := cache.Get(k)
		require.True(t, ok, "key %s not cached", k)
		assert.True(t, p.Loaded)
		assert.Equal(t, "name-"+k, p.Name)
	}
	assert.LessOrEqual(t, source.maxSeen, 3, "batch size exceeded")
}

func TestProfileResolver_SkipsLoadedAndDuplicateKeys(t *testing.T) {
	cache := domain.NewProfileCache()
	cache.Upsert("loaded", domain.Profile{Name: "Cached", Loaded: true})
	source := &countingProfileSource{}
	resolver := NewProfileResolver(source, cache, discardLogger(), 10)

	resolver.Resolve(context.Background(), []string{"loaded", "fresh", "fresh", ""})

	assert.Equal(t, 1, source.calls)
	p, ok := cache.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, "name-fresh", p.Name)
	p, _ = cache.Get("loaded")
	assert.Equal(t, "Cached", p.Name)
}

func TestProfileResolver_FailedBatchDoesNotAbortLaterBatches(t *testing.T) {
	cache := domain.NewProfileCache()
	source := &countingProfileSource{fail: map[string]bool{"k1": true}}
	resolver := NewProfileResolver(source, cache, discardLogger(), 1)

	resolver.Resolve(context.Background(), []string{"k1", "k2", "k3"})

	_, ok := cache.Get("k1")
	assert.False(t, ok)
	for _, k := range []string{"k2", "k3"} {
		p, ok := cache.Get(k)
		require.True(t, ok, "key %s not cached after earlier batch failed", k)
		assert.True(t, p.Loaded)
	}
}

func TestProfileResolver_Name(t *testing.T) {
	cache := domain.NewProfileCache()
	cache.Upsert("aabbccddeeff0011", domain.Profile{Name: "Alice", Loaded: true})
	resolver := NewProfileResolver(&countingProfileSource{}, cache, discardLogger(), 0)

	assert.Equal(t, "Alice", resolver.Name("aabbccddeeff0011"))
	assert.Equal(t, "00112233...", resolver.Name("00112233445566778899"))
	assert.Equal(t, "short", resolver.Name("short"))
}
