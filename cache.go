package matprop

import (
	"fmt"
	"os"
)

type cacheEntry struct {
	material *Material
	refs     int
}

// MaterialCache deduplicates derived material instances by content key.
// Entries are reference counted: Get increments, Release decrements and
// evicts at zero through the backend.
//
// A cache is owned by a Scene and reached only through Host material
// resolution; it is never global.
type MaterialCache struct {
	backend MaterialBackend
	entries map[Hash128]*cacheEntry
}

// NewMaterialCache creates an empty cache. A nil backend uses DefaultBackend.
func NewMaterialCache(backend MaterialBackend) *MaterialCache {
	if backend == nil {
		backend = DefaultBackend{}
	}
	return &MaterialCache{
		backend: backend,
		entries: make(map[Hash128]*cacheEntry),
	}
}

// Get returns the instance stored under key, creating it from base on a
// miss, and takes one reference on it.
func (c *MaterialCache) Get(key Hash128, base *Material) *Material {
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{material: c.backend.Clone(base)}
		c.entries[key] = e
	}
	e.refs++
	return e.material
}

// Release drops one reference on key. The entry is destroyed when the last
// reference goes away. Releasing an unknown key is a no-op.
func (c *MaterialCache) Release(key Hash128) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs > 0 {
		return
	}
	delete(c.entries, key)
	if globalDebug {
		_, _ = fmt.Fprintf(os.Stderr, "[matprop] cache: evict %q key=%v\n", e.material.Name, key)
	}
	c.backend.Destroy(e.material)
}

// Valid reports whether m is the live instance stored under key.
func (c *MaterialCache) Valid(key Hash128, m *Material) bool {
	if m == nil {
		return false
	}
	e, ok := c.entries[key]
	return ok && e.material == m
}

// Refs returns the reference count of key, or 0 if absent.
func (c *MaterialCache) Refs(key Hash128) int {
	if e, ok := c.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Len returns the number of live entries.
func (c *MaterialCache) Len() int {
	return len(c.entries)
}

// Clear destroys every entry regardless of reference count. Holders must
// not use their instances afterwards without another Get.
func (c *MaterialCache) Clear() {
	for key, e := range c.entries {
		delete(c.entries, key)
		c.backend.Destroy(e.material)
	}
}
