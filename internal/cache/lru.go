// internal/cache/lru.go
//
// Tiny LRU cache with per-entry TTL.  Used as the process-local tier of
// the theme loader and by the render engine to hold compiled template
// sets.  No external deps; good for a few thousand entries.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a mutex-guarded least-recently-used cache.  Keys must be
// comparable; values can be any.  Entries expire ttl after Add; an expired
// entry counts as a miss and is dropped on access.
type LRU struct {
	mu      sync.Mutex
	cap     int
	ll      *list.List
	dict    map[any]*list.Element
	onEvict func() // capacity evictions only, not Remove or expiry
}

type pair struct {
	key any
	val any
	exp time.Time // zero means no expiry
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New(capacity int) *LRU {
	if capacity < 1 {
		panic("cache: capacity must be >= 1")
	}
	return &LRU{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[any]*list.Element, capacity),
	}
}

// OnEvict registers a callback fired on every capacity eviction.  Set it
// before the cache is shared; the callback runs with the lock held, so
// keep it cheap (a metrics increment).
func (c *LRU) OnEvict(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a live value and marks it MRU.  Expired entries are
// removed and reported as a miss.
func (c *LRU) Get(key any) (val any, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, hit := c.dict[key]
	if !hit {
		return nil, false
	}
	p := ele.Value.(pair)
	if !p.exp.IsZero() && time.Now().After(p.exp) {
		c.ll.Remove(ele)
		delete(c.dict, key)
		return nil, false
	}
	c.ll.MoveToFront(ele)
	return p.val, true
}

// Add inserts or updates a value.  ttl <= 0 means the entry never expires
// (it can still be evicted under capacity pressure).
func (c *LRU) Add(key, val any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	if ele, hit := c.dict[key]; hit {
		ele.Value = pair{key, val, exp}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair{key, val, exp})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(pair).key)
		if c.onEvict != nil {
			c.onEvict()
		}
	}
}

// Remove deletes a key if present.
func (c *LRU) Remove(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.dict[key]; hit {
		c.ll.Remove(ele)
		delete(c.dict, key)
	}
}

// Len reports current size, expired entries included.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
