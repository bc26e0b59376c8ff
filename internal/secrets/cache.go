package secrets

import (
	"context"
	"sync"
	"time"
)

// Cached wraps a Provider with a TTL cache. Reads are safe for concurrent
// use and invalidation does not block unrelated in-flight resolves.
type Cached struct {
	next Provider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     Credential
	expiresAt time.Time
}

// NewCached returns a caching provider around next.
func NewCached(next Provider, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cached{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Resolve implements Provider. Names missing from the cache are fetched from
// the underlying provider in one batch; a lookup failure caches nothing.
func (c *Cached) Resolve(ctx context.Context, names []string) (map[string]Credential, error) {
	resolved := make(map[string]Credential, len(names))
	var missing []string

	c.mu.RLock()
	now := c.now()
	for _, name := range names {
		entry, ok := c.entries[name]
		if ok && now.Before(entry.expiresAt) {
			resolved[name] = entry.value
			continue
		}
		missing = append(missing, name)
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return resolved, nil
	}

	fetched, err := c.next.Resolve(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	expiresAt := c.now().Add(c.ttl)
	for name, value := range fetched {
		c.entries[name] = cacheEntry{value: value, expiresAt: expiresAt}
		resolved[name] = value
	}
	c.mu.Unlock()

	return resolved, nil
}

// Invalidate evicts one cached credential.
func (c *Cached) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// InvalidateAll evicts every cached credential.
func (c *Cached) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
