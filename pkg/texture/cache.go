package texture

import "sync"

// Cache memoizes synthesized bitmaps by parameters. Synthesis is O(size²),
// so generators share one Cache across rebuilds instead of resynthesizing.
type Cache struct {
	mu     sync.Mutex
	items  map[string]*Bitmap
	hits   int
	misses int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*Bitmap)}
}

// Get returns the bitmap for params, synthesizing it on first use.
func (c *Cache) Get(params Params) *Bitmap {
	k := params.key()

	c.mu.Lock()
	defer c.mu.Unlock()
	if bm, ok := c.items[k]; ok {
		c.hits++
		return bm
	}
	c.misses++
	bm := params.build()
	c.items[k] = bm
	return bm
}

// Len returns the number of cached bitmaps.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached bitmap.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*Bitmap)
	c.hits, c.misses = 0, 0
}
