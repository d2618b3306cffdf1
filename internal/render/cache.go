package render

import (
	"fmt"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dshills/inkwell/internal/document"
)

// DefaultMaxEntries is the default cache ceiling.
const DefaultMaxEntries = 4096

// CacheKey identifies a rendered root paragraph. The paragraph ID keeps the
// key stable when paragraphs before it are inserted or removed; the content
// hash supersedes entries for edited paragraphs.
type CacheKey struct {
	ID      document.ID
	Hash    uint64
	Width   int
	Padding int
	Reveal  bool
}

// String returns the store key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%d:%x:%d:%d:%t", k.ID, k.Hash, k.Width, k.Padding, k.Reveal)
}

// Cache memoizes rendered root paragraphs. When an insert would push the
// entry count past the ceiling the whole cache is flushed.
type Cache struct {
	store *gocache.Cache
	max   int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates a cache holding at most maxEntries paragraphs.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		store: gocache.New(gocache.NoExpiration, 0),
		max:   maxEntries,
	}
}

// get returns the block stored under key.
func (c *Cache) get(key CacheKey) (*block, bool) {
	if v, ok := c.store.Get(key.String()); ok {
		c.hits.Add(1)
		return v.(*block), true
	}
	c.misses.Add(1)
	return nil, false
}

// put stores b under key and reports whether the cache had to be flushed.
func (c *Cache) put(key CacheKey, b *block) bool {
	k := key.String()
	flushed := false
	if _, exists := c.store.Get(k); !exists && c.store.ItemCount() >= c.max {
		c.store.Flush()
		c.evictions.Add(1)
		flushed = true
	}
	c.store.Set(k, b, gocache.NoExpiration)
	return flushed
}

// Invalidate clears every entry. Counters are kept.
func (c *Cache) Invalidate() {
	c.store.Flush()
}

// Len returns the number of cached paragraphs.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Stats returns cache statistics.
func (c *Cache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Size:      c.store.ItemCount(),
		MaxSize:   c.max,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}
