package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/toolvet/toolvet/internal/descriptor"
)

// ResultCache memoizes validation results by tool identity key. Uses
// sync.Map for lock-free reads on the hot path. Entries are never
// evicted automatically; Clear drops everything. Writes on the same
// key are idempotent (same inputs re-derive the same result), so
// concurrent validations of one tool race benignly.
type ResultCache struct {
	store sync.Map // map[string]*ValidationResult
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{}
}

// CacheKey derives the identity key for a tool: a digest over the tool
// ID and load timestamp. Not content-addressed — two versions loaded
// within the same timestamp resolution collide, so the cache is a
// performance optimization only, never a correctness-critical dedup.
func CacheKey(tool *descriptor.Tool) string {
	h := sha256.New()
	h.Write([]byte(tool.ID))
	h.Write([]byte{'\n'})
	h.Write([]byte(strconv.FormatInt(tool.LoadedAt.UnixNano(), 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the memoized result for the key, if any.
func (c *ResultCache) Get(key string) (*ValidationResult, bool) {
	v, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*ValidationResult), true
}

// Set stores a result under the key.
func (c *ResultCache) Set(key string, result *ValidationResult) {
	c.store.Store(key, result)
}

// Clear removes every entry.
func (c *ResultCache) Clear() {
	c.store.Range(func(key, _ any) bool {
		c.store.Delete(key)
		return true
	})
}

// Len counts the cached entries.
func (c *ResultCache) Len() int {
	n := 0
	c.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
