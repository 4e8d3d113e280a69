package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedSnapshot is a snapshot with its expiry.
type cachedSnapshot struct {
	snap *Snapshot
	ttl  time.Duration
}

// IsExpired returns true once the snapshot is older than its TTL.
// A zero TTL means the entry is never served from cache.
func (c *cachedSnapshot) IsExpired() bool {
	if c.ttl == 0 {
		return true
	}
	return time.Since(c.snap.Built) > c.ttl
}

// Cache holds reconcile snapshots keyed by Spec.CacheKey.
// Concurrent misses for the same key share a single build.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cachedSnapshot
	sf      singleflight.Group
}

// NewCache creates an empty snapshot cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cachedSnapshot)}
}

// GetOrRun returns the cached snapshot for key, or calls build when it is
// missing or expired and stores the result for ttl.
func (c *Cache) GetOrRun(ctx context.Context, key string, ttl time.Duration, build func(context.Context) (*Snapshot, error)) (*Snapshot, error) {
	if snap, ok := c.fresh(key); ok {
		return snap, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if snap, ok := c.fresh(key); ok {
			return snap, nil
		}

		snap, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if snap.Built.IsZero() {
			snap.Built = time.Now()
		}

		c.mu.Lock()
		c.entries[key] = &cachedSnapshot{snap: snap, ttl: ttl}
		c.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

func (c *Cache) fresh(key string) (*Snapshot, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || entry.IsExpired() {
		return nil, false
	}
	return entry.snap, true
}

// Invalidate drops the snapshot for key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear drops every snapshot.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cachedSnapshot)
	c.mu.Unlock()
}

// Len returns the number of stored snapshots, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
