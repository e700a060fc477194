package catalog

import "sync"

// Cache memoizes resolver results keyed by call arguments. Entries are
// immutable once stored, so concurrent readers need no copying. The cache
// never expires on its own; the index watcher calls Invalidate when the
// tree changes.
type Cache struct {
	mu sync.RWMutex
	m  map[string]any
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]any)}
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *Cache) put(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = v
}

// Invalidate drops every cached entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]any)
}
