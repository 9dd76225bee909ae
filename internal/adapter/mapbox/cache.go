package mapbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/shelter-nav/internal/domain"
	"github.com/couchcryptid/shelter-nav/internal/observability"
)

// CachedDirections wraps a DirectionsProvider with an in-memory LRU cache so
// repeated requests for the same endpoints return the same geometry.
type CachedDirections struct {
	inner   domain.DirectionsProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedDirections creates a cache decorator around a directions provider.
func NewCachedDirections(inner domain.DirectionsProvider, maxEntries int, metrics *observability.Metrics) *CachedDirections {
	return &CachedDirections{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedDirections) Directions(ctx context.Context, profile domain.Profile, start, end domain.Coordinate) (domain.DirectionsRoute, error) {
	key := fmt.Sprintf("%s:%s;%s", profile, start, end)
	if route, ok := c.cache.get(key); ok {
		c.observe("hit")
		return route, nil
	}
	c.observe("miss")
	route, err := c.inner.Directions(ctx, profile, start, end)
	if err != nil {
		return route, err
	}
	// Only successes are cached so a failed lookup is retried next time.
	c.cache.put(key, route)
	return route, nil
}

func (c *CachedDirections) observe(result string) {
	if c.metrics != nil {
		c.metrics.DirectionsCache.WithLabelValues(result).Inc()
	}
}

// lruCache is a simple thread-safe LRU cache for DirectionsRoutes.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.DirectionsRoute
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.DirectionsRoute, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.DirectionsRoute{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.DirectionsRoute) {
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

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
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
