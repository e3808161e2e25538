package dictionary

import (
	"container/list"
	"sync"
	"time"

	"github.com/vytor/wordflash/internal/models"
)

// MemoryCache is a bounded, TTL-aware LRU of resolved entries. It is safe for
// concurrent use and holds nothing that cannot be re-resolved.
type MemoryCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	order    *list.List
	items    map[string]*list.Element
}

type memEntry struct {
	term     string
	entry    models.WordEntry
	cachedAt time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		c.now = now
	}
}

// NewMemoryCache returns a cache holding at most capacity entries, each for ttl.
func NewMemoryCache(capacity int, ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	c := &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for term if present and younger than the TTL.
// Expired entries are dropped on access.
func (c *MemoryCache) Get(term string) (models.WordEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[term]
	if !ok {
		return models.WordEntry{}, false
	}
	me := el.Value.(*memEntry)
	if c.now().Sub(me.cachedAt) >= c.ttl {
		c.removeElement(el)
		return models.WordEntry{}, false
	}
	c.order.MoveToFront(el)
	return me.entry, true
}

// Set stores entry as resolved at cachedAt, evicting the least recently used
// entry when full.
func (c *MemoryCache) Set(term string, entry models.WordEntry, cachedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[term]; ok {
		me := el.Value.(*memEntry)
		me.entry, me.cachedAt = entry, cachedAt
		c.order.MoveToFront(el)
		return
	}
	c.items[term] = c.order.PushFront(&memEntry{term: term, entry: entry, cachedAt: cachedAt})
	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
	}
}

// Delete drops term.
func (c *MemoryCache) Delete(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[term]; ok {
		c.removeElement(el)
	}
}

// Len reports the number of held entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge empties the cache.
func (c *MemoryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

func (c *MemoryCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*memEntry).term)
}
