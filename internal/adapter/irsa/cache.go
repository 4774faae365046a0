package irsa

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// ReddeningResolver is the lookup the cache decorates; *Client satisfies it.
type ReddeningResolver interface {
	Reddening(ctx context.Context, lat, lon float64) (float64, error)
}

// CachedResolver wraps a ReddeningResolver with an in-memory LRU cache.
// Extinction maps are static, so cached values never expire.
type CachedResolver struct {
	inner ReddeningResolver
	cache *lruCache

	hits   func()
	misses func()
}

// NewCachedResolver creates a cache decorator around a resolver. The hit
// and miss callbacks feed metrics; either may be nil.
func NewCachedResolver(inner ReddeningResolver, maxEntries int, hits, misses func()) *CachedResolver {
	return &CachedResolver{
		inner:  inner,
		cache:  newLRUCache(maxEntries),
		hits:   hits,
		misses: misses,
	}
}

func (c *CachedResolver) Reddening(ctx context.Context, lat, lon float64) (float64, error) {
	key := fmt.Sprintf("%.5f %.5f", lat, lon)
	if value, ok := c.cache.get(key); ok {
		if c.hits != nil {
			c.hits()
		}
		return value, nil
	}
	if c.misses != nil {
		c.misses()
	}

	value, err := c.inner.Reddening(ctx, lat, lon)
	if err != nil {
		return value, err
	}
	// Only cache usable values so transient failures can be retried.
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		c.cache.put(key, value)
	}
	return value, nil
}

// lruCache is a simple thread-safe LRU cache for reddening values.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value float64
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
