package preview

import (
	"container/list"
	"sync"
)

const defaultCacheSize = 1024

// lruCache is a bounded map with least-recently-used eviction. Entries for
// which pinned returns true are never evicted.
type lruCache[V any] struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
	pinned   func(V) bool
}

type lruEntry[V any] struct {
	key   string
	value V
}

func newLRUCache[V any](capacity int, pinned func(V) bool) *lruCache[V] {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}
	if pinned == nil {
		pinned = func(V) bool { return false }
	}
	return &lruCache[V]{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
		pinned:   pinned,
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry[V]).value, true
}

// getOrPut returns the cached value for key, or stores and returns the value
// produced by create. keep decides whether an existing value is still usable;
// when it returns false the value is replaced.
func (c *lruCache[V]) getOrPut(key string, keep func(V) bool, create func() V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*lruEntry[V])
		if keep == nil || keep(entry.value) {
			c.order.MoveToFront(elem)
			return entry.value, true
		}
		entry.value = create()
		c.order.MoveToFront(elem)
		return entry.value, false
	}

	value := create()
	c.entries[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value})
	c.evictLocked()
	return value, false
}

// removeIf deletes key when its current value satisfies match.
func (c *lruCache[V]) removeIf(key string, match func(V) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return false
	}
	if match != nil && !match(elem.Value.(*lruEntry[V]).value) {
		return false
	}
	c.order.Remove(elem)
	delete(c.entries, key)
	return true
}

func (c *lruCache[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *lruCache[V]) evictLocked() {
	elem := c.order.Back()
	for c.order.Len() > c.capacity && elem != nil {
		prev := elem.Prev()
		entry := elem.Value.(*lruEntry[V])
		if !c.pinned(entry.value) {
			c.order.Remove(elem)
			delete(c.entries, entry.key)
		}
		elem = prev
	}
}
