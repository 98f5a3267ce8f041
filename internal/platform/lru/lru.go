// Package lru provides a small thread-safe least-recently-used cache.
package lru

import "sync"

// Cache is a fixed-capacity LRU map. The zero value is not usable; call New.
type Cache[K comparable, V any] struct {
	capacity int
	mu       sync.Mutex
	items    map[K]*node[K, V]
	newest   *node[K, V]
	oldest   *node[K, V]
}

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// New returns a cache holding at most capacity entries. A capacity below one
// is treated as one.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]*node[K, V]),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.promote(n)
	return n.value, true
}

// Put inserts or replaces key, evicting the least recently used entry when full.
// It reports whether an entry was evicted.
func (c *Cache[K, V]) Put(key K, value V) (evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.items[key]; ok {
		n.value = value
		c.promote(n)
		return false
	}

	n := &node[K, V]{key: key, value: value}
	c.items[key] = n
	c.pushFront(n)

	if len(c.items) > c.capacity {
		victim := c.oldest
		c.unlink(victim)
		delete(c.items, victim.key)
		return true
	}
	return false
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[K, V]) promote(n *node[K, V]) {
	if n == c.newest {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.newest
	if c.newest != nil {
		c.newest.prev = n
	}
	c.newest = n
	if c.oldest == nil {
		c.oldest = n
	}
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.newest = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.oldest = n.prev
	}
	n.prev, n.next = nil, nil
}
