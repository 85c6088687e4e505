// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cloudcache

import (
	"sync"
	"time"

	"github.com/apex/log"
)

const (
	// DefaultTimeout is how long an entry stays fresh when no timeout is
	// given at registration.
	DefaultTimeout = time.Hour

	// DefaultCeiling is the hard cap on a cache's age. Once a cache has gone
	// this long without a clear, the next read drops everything, fresh
	// entries included. That wholesale discard is deliberate: it bounds
	// retention even when entries keep getting rewritten under the ceiling.
	DefaultCeiling = 24 * time.Hour
)

// entry is one cached value set. A nil items with a live record means the
// payload was released (stale read or memory-pressure reclaim) and the next
// Get reports a miss.
type entry[T any] struct {
	storedAt time.Time
	items    []T
}

// Cache holds listings of T for one resource, keyed per its Level. Obtain
// instances through a Registry so that every caller interested in the same
// resource shares one cache.
//
// A Cache is safe for concurrent use. Its lock covers only map navigation
// and the ceiling check; the expensive fetch a caller performs between a
// miss and the following Put happens outside any lock.
type Cache[T any] struct {
	mu        sync.Mutex
	level     Level
	timeout   time.Duration
	ceiling   time.Duration
	createdAt time.Time
	entries   map[cacheKey]*entry[T]
	disabled  bool

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewCache constructs a standalone cache. Most callers should use
// GetOrCreate instead, which ensures one shared instance per owner and name.
// A zero timeout selects DefaultTimeout.
func NewCache[T any](level Level, timeout time.Duration) *Cache[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Cache[T]{
		level:   level,
		timeout: timeout,
		ceiling: DefaultCeiling,
		entries: make(map[cacheKey]*entry[T]),
		now:     time.Now,
	}
	c.createdAt = c.now()
	return c
}

// Level reports the granularity fixed at registration.
func (c *Cache[T]) Level() Level { return c.level }

// Timeout reports the per-entry staleness timeout fixed at registration.
func (c *Cache[T]) Timeout() time.Duration { return c.timeout }

// Get returns the items cached for ctx. The second return is false on any
// kind of miss: nothing stored, entry past its timeout, payload reclaimed,
// or the whole cache past its age ceiling. An error is returned only when
// ctx is missing a field the cache level requires.
func (c *Cache[T]) Get(ctx Context) ([]T, bool, error) {
	key, err := c.level.key(ctx)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return nil, false, nil
	}

	now := c.now()

	// The ceiling wins over everything, including entries that are still
	// inside their timeout.
	if now.Sub(c.createdAt) > c.ceiling {
		log.Debugf("cache age ceiling reached, clearing %d entries", len(c.entries))
		c.clearLocked(now)
		return nil, false, nil
	}

	ent, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}

	if now.Sub(ent.storedAt) >= c.timeout {
		// Free the payload eagerly rather than waiting for the next Put.
		delete(c.entries, key)
		return nil, false, nil
	}

	if ent.items == nil {
		// Reclaimed under memory pressure before it could expire.
		return nil, false, nil
	}

	return ent.items, true, nil
}

// Put stores items for ctx, overwriting whatever was there. It fails only on
// a context that violates the cache level's key requirements.
func (c *Cache[T]) Put(ctx Context, items []T) error {
	key, err := c.level.key(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return nil
	}

	c.entries[key] = &entry[T]{
		storedAt: c.now(),
		items:    items,
	}
	return nil
}

// Age reports how long ago the entry for ctx was stored. The second return
// is false whenever Get for the same ctx would miss: nothing stored, entry
// past its timeout, payload reclaimed, cache disabled, or the cache past its
// age ceiling. Unlike Get, Age is a pure peek and never evicts anything.
func (c *Cache[T]) Age(ctx Context) (time.Duration, bool, error) {
	key, err := c.level.key(ctx)
	if err != nil {
		return 0, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return 0, false, nil
	}

	now := c.now()
	if now.Sub(c.createdAt) > c.ceiling {
		return 0, false, nil
	}

	ent, ok := c.entries[key]
	if !ok || ent.items == nil {
		return 0, false, nil
	}

	age := now.Sub(ent.storedAt)
	if age >= c.timeout {
		return 0, false, nil
	}
	return age, true, nil
}

// Clear empties the cache across every key and resets the age ceiling.
// Callers invoke it directly when they know their data is stale; the cache
// calls it internally when the ceiling trips.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked(c.now())
}

func (c *Cache[T]) clearLocked(now time.Time) {
	c.entries = make(map[cacheKey]*entry[T])
	c.createdAt = now
}

// Reclaim releases every payload while keeping entry records in place, the
// same observable state as the runtime collecting a soft reference: the next
// Get for any key misses. Hook this to a memory-pressure signal.
func (c *Cache[T]) Reclaim() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ent := range c.entries {
		ent.items = nil
	}
}

// Size reports the number of entry records currently held, including records
// whose payload has been reclaimed.
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
