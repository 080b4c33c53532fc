package sql

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/sirupsen/logrus"
)

// DefaultTypeCacheSize is the number of types kept by a cache created
// without an explicit capacity.
const DefaultTypeCacheSize = 1024

// CacheStats holds the counters of a TypeCache.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// TypeCache interns canonical types by their structural signature. It keeps
// at most Capacity entries, evicting the least recently used one when a new
// entry does not fit. A capacity of 0 disables the cache: every lookup is a
// miss and nothing is stored.
//
// The cache is safe for concurrent use. Factories passed to InternOrCreate
// run without holding the cache lock, so two goroutines racing on the same
// signature may both build a type; the one inserted first wins and is
// returned to later callers.
type TypeCache struct {
	// accessed atomically, kept first for alignment
	hits   uint64
	misses uint64

	mu        sync.Mutex
	capacity  int
	entries   *simplelru.LRU
	evictions uint64
}

// NewTypeCache creates a cache holding at most capacity types. Negative
// capacities are treated as 0.
func NewTypeCache(capacity int) *TypeCache {
	// Capacity is enforced by the cache itself, the LRU is only used to keep
	// the entries in access order.
	entries, err := simplelru.NewLRU(math.MaxInt32, nil)
	if err != nil {
		panic(err)
	}

	return &TypeCache{
		capacity: normalizeCapacity(capacity),
		entries:  entries,
	}
}

func normalizeCapacity(capacity int) int {
	if capacity < 0 {
		return 0
	}
	return capacity
}

// Configure changes the capacity of the cache. It does not evict anything
// by itself: if the cache holds more entries than the new capacity, the
// excess is evicted on the next insertion.
func (c *TypeCache) Configure(capacity int) {
	capacity = normalizeCapacity(capacity)

	c.mu.Lock()
	prev := c.capacity
	c.capacity = capacity
	c.mu.Unlock()

	if prev != capacity {
		logrus.WithFields(logrus.Fields{
			"previous": prev,
			"capacity": capacity,
		}).Debug("type cache reconfigured")
	}
}

// Capacity returns the maximum number of entries of the cache.
func (c *TypeCache) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// Len returns the number of entries currently stored.
func (c *TypeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// InternOrCreate returns the type stored under the given signature. If
// there is none, factory is called to build it and the result is stored
// and returned.
func (c *TypeCache) InternOrCreate(signature string, factory func() *Type) *Type {
	if t, ok := c.get(signature); ok {
		atomic.AddUint64(&c.hits, 1)
		return t
	}

	atomic.AddUint64(&c.misses, 1)
	return c.add(signature, factory())
}

func (c *TypeCache) get(signature string) (*Type, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return nil, false
	}

	v, ok := c.entries.Get(signature)
	if !ok {
		return nil, false
	}
	return v.(*Type), true
}

func (c *TypeCache) add(signature string, t *Type) *Type {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return t
	}

	// Someone else may have stored the same signature while the factory
	// was running.
	if v, ok := c.entries.Get(signature); ok {
		return v.(*Type)
	}

	for c.entries.Len() >= c.capacity {
		k, _, ok := c.entries.RemoveOldest()
		if !ok {
			break
		}
		c.evictions++
		logrus.WithField("signature", k).Debug("type evicted from cache")
	}

	c.entries.Add(signature, t)
	return t
}

// Purge removes every entry of the cache.
func (c *TypeCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Stats returns a snapshot of the counters of the cache.
func (c *TypeCache) Stats() CacheStats {
	c.mu.Lock()
	evictions := c.evictions
	c.mu.Unlock()

	return CacheStats{
		Hits:      atomic.LoadUint64(&c.hits),
		Misses:    atomic.LoadUint64(&c.misses),
		Evictions: evictions,
	}
}
