// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ResultCache provides LRU caching for computed component results.
//
// # Description
//
// Caches results keyed by (actor, seed set, graph generation). The graph
// generation is part of the key, so a rebuild invalidates every prior
// entry without an explicit flush. The actor is part of the key because
// permission filtering makes the result actor-specific.
//
// # Cache Key Format
//
// Keys are computed as: SHA256(actor + "|" + sorted seeds + "|" + generation),
// truncated to the first 16 bytes. Seed order does not affect the key.
//
// # Thread Safety
//
// Safe for concurrent use. Uses sync.RWMutex for the entry map and
// singleflight.Group for computation deduplication.
type ResultCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry[V]
	lru     *list.List
	flight  singleflight.Group
	options Options

	// Stats
	hits       int64
	misses     int64
	evictions  int64
	computes   int64
	errorCount int64
}

// cacheEntry is one cached result.
type cacheEntry[V any] struct {
	// Key is the cache key.
	Key string

	// Result is the cached value.
	Result V

	// Generation is the graph version when computed.
	Generation uint64

	// ComputedAtMilli is when the result was computed.
	ComputedAtMilli int64

	// LastAccessMilli is when the entry was last accessed.
	LastAccessMilli int64

	// lruElement is the position in the LRU list.
	lruElement *list.Element
}

// Options configures a ResultCache.
type Options struct {
	// MaxEntries is the maximum number of cached results.
	// Default: 1000
	MaxEntries int

	// MaxAge is the TTL for cached entries. Zero disables expiry; the
	// generation key already bounds staleness to the current graph.
	// Default: 5 minutes
	MaxAge time.Duration

	// ComputeTimeout is the maximum time for a single computation.
	// Default: 2s
	ComputeTimeout time.Duration
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxEntries:     1000,
		MaxAge:         5 * time.Minute,
		ComputeTimeout: 2 * time.Second,
	}
}

// Option is a functional option for configuring a ResultCache.
type Option func(*Options)

// WithMaxEntries sets the maximum number of cached entries.
func WithMaxEntries(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxEntries = n
		}
	}
}

// WithMaxAge sets the TTL for cached entries.
func WithMaxAge(d time.Duration) Option {
	return func(o *Options) {
		if d >= 0 {
			o.MaxAge = d
		}
	}
}

// WithComputeTimeout sets the computation timeout.
func WithComputeTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.ComputeTimeout = d
		}
	}
}

// New creates a ResultCache.
func New[V any](opts ...Option) *ResultCache[V] {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &ResultCache[V]{
		entries: make(map[string]*cacheEntry[V]),
		lru:     list.New(),
		options: options,
	}
}

// ComputeFunc computes a value when the cache misses.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Key derives the cache key for one query. Exposed so callers can log it.
func Key(actor string, seeds []string, generation uint64) string {
	sorted := make([]string, len(seeds))
	copy(sorted, seeds)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString(actor)
	b.WriteByte('|')
	b.WriteString(strings.Join(sorted, ","))
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(generation, 10))

	h := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(h[:16])
}

// Get retrieves a cached result.
//
// # Outputs
//
//   - V: The cached result, or the zero value if not found.
//   - bool: True if the entry was found and valid.
func (c *ResultCache[V]) Get(actor string, seeds []string, generation uint64) (V, bool) {
	var zero V
	key := Key(actor, seeds, generation)

	c.mu.RLock()
	entry, ok := c.entries[key]
	if !ok {
		c.mu.RUnlock()
		atomic.AddInt64(&c.misses, 1)
		return zero, false
	}

	if c.isExpired(entry) {
		c.mu.RUnlock()
		c.remove(key)
		atomic.AddInt64(&c.misses, 1)
		return zero, false
	}

	result := entry.Result
	c.mu.RUnlock()

	c.updateLRU(entry)

	atomic.AddInt64(&c.hits, 1)
	return result, true
}

// GetOrCompute retrieves a cached result or computes a new one.
//
// # Description
//
// Uses singleflight to deduplicate concurrent computations for the same
// key. If multiple goroutines request the same query simultaneously, only
// one computation runs and all waiters receive the result. Errors are
// never cached.
func (c *ResultCache[V]) GetOrCompute(
	ctx context.Context,
	actor string,
	seeds []string,
	generation uint64,
	compute ComputeFunc[V],
) (V, error) {
	var zero V

	if result, ok := c.Get(actor, seeds, generation); ok {
		return result, nil
	}

	key := Key(actor, seeds, generation)

	result, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// Double-check: a concurrent flight may have populated the entry
		// while this goroutine waited on the group.
		if result, ok := c.Get(actor, seeds, generation); ok {
			return result, nil
		}

		computeCtx, cancel := context.WithTimeout(ctx, c.options.ComputeTimeout)
		defer cancel()

		result, err := compute(computeCtx)
		if err != nil {
			atomic.AddInt64(&c.errorCount, 1)
			return zero, err
		}

		c.put(key, generation, result)
		atomic.AddInt64(&c.computes, 1)

		return result, nil
	})

	if err != nil {
		return zero, err
	}
	return result.(V), nil
}

// put adds a result to the cache.
func (c *ResultCache[V]) put(key string, generation uint64, result V) {
	now := time.Now().UnixMilli()
	entry := &cacheEntry[V]{
		Key:             key,
		Result:          result,
		Generation:      generation,
		ComputedAtMilli: now,
		LastAccessMilli: now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}

	c.evictIfNeededLocked()

	entry.lruElement = c.lru.PushFront(key)
	c.entries[key] = entry
}

// isExpired checks if an entry has exceeded its TTL.
func (c *ResultCache[V]) isExpired(entry *cacheEntry[V]) bool {
	if c.options.MaxAge == 0 {
		return false
	}
	age := time.Since(time.UnixMilli(entry.ComputedAtMilli))
	return age > c.options.MaxAge
}

// updateLRU moves an entry to the front of the LRU list and stamps its
// access time. The stamp happens here, under the write lock, so that
// concurrent Gets on the same entry never race on LastAccessMilli.
func (c *ResultCache[V]) updateLRU(entry *cacheEntry[V]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry.LastAccessMilli = time.Now().UnixMilli()
	if entry.lruElement != nil {
		c.lru.MoveToFront(entry.lruElement)
	}
}

// remove removes an entry from the cache.
func (c *ResultCache[V]) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return
	}

	if entry.lruElement != nil {
		c.lru.Remove(entry.lruElement)
	}
	delete(c.entries, key)
}

// evictIfNeededLocked evicts LRU entries if at capacity (must hold lock).
func (c *ResultCache[V]) evictIfNeededLocked() {
	for len(c.entries) >= c.options.MaxEntries {
		if !c.evictLRULocked() {
			break
		}
	}
}

// evictLRULocked evicts the least recently used entry (must hold lock).
func (c *ResultCache[V]) evictLRULocked() bool {
	elem := c.lru.Back()
	if elem == nil {
		return false
	}

	key := elem.Value.(string)
	entry := c.entries[key]
	if entry != nil {
		c.lru.Remove(entry.lruElement)
		delete(c.entries, key)
		atomic.AddInt64(&c.evictions, 1)
		return true
	}
	return false
}

// InvalidateOlderThan removes every entry computed against a generation
// before the given one. Called after a rebuild to bound memory; lookups
// against stale generations already miss by key.
func (c *ResultCache[V]) InvalidateOlderThan(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Generation < generation {
			if entry.lruElement != nil {
				c.lru.Remove(entry.lruElement)
			}
			delete(c.entries, key)
		}
	}
}

// Clear removes all entries from the cache.
func (c *ResultCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry[V])
	c.lru.Init()
}

// Stats contains statistics about the cache.
type Stats struct {
	EntryCount int   `json:"entry_count"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evictions  int64 `json:"evictions"`
	Computes   int64 `json:"computes"`
	Errors     int64 `json:"errors"`
}

// GetStats returns current cache statistics.
func (c *ResultCache[V]) GetStats() Stats {
	c.mu.RLock()
	entryCount := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		EntryCount: entryCount,
		Hits:       atomic.LoadInt64(&c.hits),
		Misses:     atomic.LoadInt64(&c.misses),
		Evictions:  atomic.LoadInt64(&c.evictions),
		Computes:   atomic.LoadInt64(&c.computes),
		Errors:     atomic.LoadInt64(&c.errorCount),
	}
}
