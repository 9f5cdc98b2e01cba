// Package visuals caches per-item presentation payloads (thumbnails,
// favicons) behind a fetch function: concurrent requests for the same id are
// de-duplicated, and resolved entries live in a bounded LRU.
package visuals

import (
	"container/list"
	"sync"

	"downhome-cli/internal/model"
)

// Fetcher resolves visuals for one item. The reply must fire exactly once;
// nil means the item has no visuals.
type Fetcher func(id string, reply func(id string, v *model.Visuals))

const defaultCapacity = 128

type Cache struct {
	mu       sync.Mutex
	capacity int
	fetch    Fetcher

	ll       *list.List               // front = most recently used
	entries  map[string]*list.Element // id -> *entry element
	inflight map[string][]func(id string, v *model.Visuals)
}

type entry struct {
	id string
	v  *model.Visuals
}

func NewCache(capacity int, fetch Fetcher) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Cache{
		capacity: capacity,
		fetch:    fetch,
		ll:       list.New(),
		entries:  map[string]*list.Element{},
		inflight: map[string][]func(string, *model.Visuals){},
	}
}

// Visuals satisfies the model's VisualsProvider slot. Cached entries reply
// synchronously; a miss triggers one fetch no matter how many callers are
// waiting on the same id.
func (c *Cache) Visuals(id string, reply func(id string, v *model.Visuals)) {
	c.mu.Lock()
	if el, ok := c.entries[id]; ok {
		c.ll.MoveToFront(el)
		v := el.Value.(*entry).v
		c.mu.Unlock()
		reply(id, v)
		return
	}
	if waiters, ok := c.inflight[id]; ok {
		c.inflight[id] = append(waiters, reply)
		c.mu.Unlock()
		return
	}
	c.inflight[id] = []func(string, *model.Visuals){reply}
	c.mu.Unlock()

	c.fetch(id, c.resolve)
}

func (c *Cache) resolve(id string, v *model.Visuals) {
	c.mu.Lock()
	waiters := c.inflight[id]
	delete(c.inflight, id)

	if _, ok := c.entries[id]; !ok {
		c.entries[id] = c.ll.PushFront(&entry{id: id, v: v})
		for c.ll.Len() > c.capacity {
			oldest := c.ll.Back()
			c.ll.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).id)
		}
	}
	c.mu.Unlock()

	for _, reply := range waiters {
		reply(id, v)
	}
}

// Remove drops a cached entry, typically after the item's delete commits.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[id]; ok {
		c.ll.Remove(el)
		delete(c.entries, id)
	}
}

// Len is the number of resolved entries (not counting in-flight fetches).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
