package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/arloliu/impact/record"
)

// DefaultCacheSize is the default maximum number of cached results.
const DefaultCacheSize = 4096

// CacheKey identifies one metric computation.
type CacheKey struct {
	Record      uint64
	Predecessor uint64 // zero when there is no predecessor
	Bounds      uint64
	Weights     uint64
}

// KeyFor builds the cache key of a computation.
func KeyFor(current record.ProgramRecord, previous *record.ProgramRecord, bounds Bounds, w Weights) CacheKey {
	key := CacheKey{
		Record:  current.Hash(),
		Bounds:  bounds.Version(),
		Weights: w.Version(),
	}
	if previous != nil {
		key.Predecessor = previous.Hash()
	}

	return key
}

// Cache memoizes metric results in a bounded LRU.
//
// It never changes results: a miss recomputes with ComputeWeighted, and the
// key covers every input of the computation. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[CacheKey]*cacheEntry
	head    *cacheEntry // Most recently used.
	tail    *cacheEntry // Least recently used.
	maxSize int

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	key    CacheKey
	result Result
	prev   *cacheEntry
	next   *cacheEntry
}

// NewCache creates a cache holding up to maxSize results.
// A non-positive maxSize selects DefaultCacheSize.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	return &Cache{
		entries: make(map[CacheKey]*cacheEntry),
		maxSize: maxSize,
	}
}

// Compute returns the cached result for the inputs, computing and storing it on a miss.
// Errors are not cached.
func (c *Cache) Compute(current record.ProgramRecord, previous *record.ProgramRecord, bounds Bounds, w Weights) (Result, error) {
	key := KeyFor(current, previous, bounds, w)
	if res, ok := c.Get(key); ok {
		return res, nil
	}

	res, err := ComputeWeighted(current, previous, bounds, w)
	if err != nil {
		return Result{}, err
	}
	c.Put(key, res)

	return res, nil
}

// Get returns the result stored under key.
func (c *Cache) Get(key CacheKey) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return Result{}, false
	}

	c.hits.Add(1)
	c.moveToFront(entry)

	return entry.result, true
}

// Put stores res under key, evicting the least recently used entry when full.
func (c *Cache) Put(key CacheKey, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.result = res
		c.moveToFront(entry)

		return
	}

	for len(c.entries) >= c.maxSize && c.tail != nil {
		victim := c.tail
		c.removeFromList(victim)
		delete(c.entries, victim.key)
	}

	entry := &cacheEntry{key: key, result: res}
	c.entries[key] = entry
	c.addToFront(entry)
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Clear removes all entries. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[CacheKey]*cacheEntry)
	c.head = nil
	c.tail = nil
}

// CacheStats holds cache performance counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
	MaxSize int
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: len(c.entries),
		MaxSize: c.maxSize,
	}
}

func (c *Cache) moveToFront(entry *cacheEntry) {
	if entry == c.head {
		return
	}

	c.removeFromList(entry)
	c.addToFront(entry)
}

func (c *Cache) addToFront(entry *cacheEntry) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *Cache) removeFromList(entry *cacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}
