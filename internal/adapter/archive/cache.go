package archive

import (
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
	"github.com/couchcryptid/storm-track-geojson/internal/observability"
)

// LayerSource returns decoded layers for an archive URL.
type LayerSource interface {
	Layers(ctx context.Context, url string, components []domain.Component) ([]domain.Layer, error)
}

// CachedSource wraps a LayerSource with an in-memory LRU cache. Forecast
// advisory archives never change once published, so repeated runs skip the
// download and decode. Archives matching the refresh marker bypass the cache.
type CachedSource struct {
	inner         LayerSource
	cache         *lruCache
	refreshMarker string
	metrics       *observability.Metrics
}

// NewCachedSource creates a cache decorator around a layer source.
func NewCachedSource(inner LayerSource, maxEntries int, refreshMarker string, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:         inner,
		cache:         newLRUCache(maxEntries),
		refreshMarker: refreshMarker,
		metrics:       metrics,
	}
}

func (c *CachedSource) Layers(ctx context.Context, url string, components []domain.Component) ([]domain.Layer, error) {
	if c.refreshMarker != "" && strings.Contains(url, c.refreshMarker) {
		return c.inner.Layers(ctx, url, components)
	}

	key := cacheKey(url, components)
	if layers, ok := c.cache.get(key); ok {
		c.observe("hit")
		return layers, nil
	}
	c.observe("miss")

	layers, err := c.inner.Layers(ctx, url, components)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, layers)
	return layers, nil
}

func (c *CachedSource) observe(result string) {
	if c.metrics != nil {
		c.metrics.ArchiveCache.WithLabelValues(result).Inc()
	}
}

func cacheKey(url string, components []domain.Component) string {
	parts := make([]string, len(components))
	for i, comp := range components {
		parts[i] = string(comp)
	}
	return url + "|" + strings.Join(parts, ",")
}

// lruCache is a simple thread-safe LRU cache of decoded layers.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []domain.Layer
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.Layer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []domain.Layer) {
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
