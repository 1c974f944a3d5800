// Package cache provides a sharded LRU cache used for compiled shader
// artifacts. Compiling WGSL to SPIR-V is expensive relative to dispatching a
// frame, so the GPU accelerator caches one compiled pipeline per transition
// id and reuses it across every frame of the transition.
package cache

import (
	"container/list"
	"hash/fnv"
	"sync"
	"sync/atomic"
)

// shardCount is the number of independent shards. Power of 2 so shard
// selection is a mask.
const shardCount = 8

// DefaultCapacity is the per-shard entry limit when none is given.
const DefaultCapacity = 64

// Hasher computes the shard-selection hash of a key.
type Hasher[K any] func(K) uint64

// StringHasher hashes a string key with FNV-1a.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Uint64Hasher is the identity hash.
func Uint64Hasher(u uint64) uint64 { return u }

// Sharded is a thread-safe LRU cache split into shards to reduce lock
// contention. Values are stored as-is; callers must not mutate a value after
// inserting it.
type Sharded[K comparable, V any] struct {
	shards   [shardCount]shard[K, V]
	hasher   Hasher[K]
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List // front = most recently used
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewSharded creates a sharded cache holding up to capacity entries per
// shard. A non-positive capacity uses DefaultCapacity.
func NewSharded[K comparable, V any](capacity int, hasher Hasher[K]) *Sharded[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Sharded[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i].items = make(map[K]*list.Element)
		c.shards[i].order = list.New()
	}
	return c
}

func (c *Sharded[K, V]) shardFor(key K) *shard[K, V] {
	return &c.shards[c.hasher(key)&(shardCount-1)]
}

// Get returns the cached value for key and marks it most recently used.
func (c *Sharded[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	el, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.order.MoveToFront(el)
	v := el.Value.(*entry[K, V]).value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Put inserts or replaces the value for key, evicting the least recently
// used entry if the shard is full.
func (c *Sharded[K, V]) Put(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		el.Value.(*entry[K, V]).value = value
		s.order.MoveToFront(el)
		return
	}
	c.evictLocked(s)
	s.items[key] = s.order.PushFront(&entry[K, V]{key: key, value: value})
}

// GetOrCreate returns the cached value for key, calling create to produce it
// on a miss. create runs with the shard lock held so concurrent callers do
// not duplicate the work; it may return an error, in which case nothing is
// cached.
func (c *Sharded[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.order.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*entry[K, V]).value, nil
	}
	c.misses.Add(1)
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	c.evictLocked(s)
	s.items[key] = s.order.PushFront(&entry[K, V]{key: key, value: v})
	return v, nil
}

// Delete removes key from the cache, reporting whether it was present.
func (c *Sharded[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[key]
	if !ok {
		return false
	}
	s.order.Remove(el)
	delete(s.items, key)
	return true
}

// Each calls fn for every cached entry. The order is unspecified; fn must
// not call back into the cache for the same shard.
func (c *Sharded[K, V]) Each(fn func(key K, value V)) {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for k, el := range s.items {
			fn(k, el.Value.(*entry[K, V]).value)
		}
		s.mu.Unlock()
	}
}

// Purge drops every entry.
func (c *Sharded[K, V]) Purge() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.items = make(map[K]*list.Element)
		s.order.Init()
		s.mu.Unlock()
	}
}

// Len returns the number of cached entries across all shards.
func (c *Sharded[K, V]) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.items)
		s.mu.Unlock()
	}
	return n
}

// evictLocked removes least-recently-used entries until the shard is below
// capacity. Caller holds the shard lock.
func (c *Sharded[K, V]) evictLocked(s *shard[K, V]) {
	for s.order.Len() >= c.capacity {
		oldest := s.order.Back()
		if oldest == nil {
			return
		}
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*entry[K, V]).key)
		c.evictions.Add(1)
	}
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns the current counters. Reading them is lock-free; Len takes
// the shard locks briefly.
func (c *Sharded[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	st := Stats{
		Len:       c.Len(),
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
	}
	if total := hits + misses; total > 0 {
		st.HitRate = float64(hits) / float64(total)
	}
	return st
}
