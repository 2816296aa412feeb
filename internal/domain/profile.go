package domain

import (
	"context"
	"sync"
)

// Profile is an organizer profile record.
type Profile struct {
	Name   string `json:"name"`
	Loaded bool   `json:"loaded"`
}

// ProfileSource fetches profile metadata for a single author key.
type ProfileSource interface {
	FetchProfile(ctx context.Context, pubkey string) (Profile, error)
}

// ProfileCache is an explicit, shared name cache keyed by hex author key.
// It is passed to callers by handle rather than hidden behind package state
// so lifetime and test isolation stay explicit.
type ProfileCache struct {
	mu    sync.RWMutex
	byKey map[string]Profile
}

// NewProfileCache returns an empty cache.
func NewProfileCache() *ProfileCache {
	return &ProfileCache{byKey: make(map[string]Profile)}
}

// Get returns the cached profile for key and whether one is present.
func (c *ProfileCache) Get(key string) (Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byKey[key]
	return p, ok
}

// Upsert stores or replaces the profile for key.
func (c *ProfileCache) Upsert(key string, p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[key] = p
}

// DisplayName returns the loaded name for key, or a truncated key while the
// profile has not been loaded yet. The staleness window is self-correcting:
// a later Upsert makes the next read current.
func (c *ProfileCache) DisplayName(key string) string {
	if p, ok := c.Get(key); ok && p.Loaded && p.Name != "" {
		return p.Name
	}
	return TruncateKey(key)
}

// TruncateKey shortens a hex author key for display.
func TruncateKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
