package analyzer

import (
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/groupcache/lru"

	"bigocheck/internal/models"
	"bigocheck/internal/syntax"
)

type cacheKey struct {
	path string
	lang syntax.Language
	sum  uint64
}

// resultCache keeps file results keyed by path and content fingerprint so
// watch mode only re-parses files whose bytes changed.
type resultCache struct {
	mu     sync.Mutex
	cache  *lru.Cache
	hits   int
	misses int
}

func newResultCache(size int) *resultCache {
	return &resultCache{cache: lru.New(size)}
}

func fingerprint(path string, lang syntax.Language, src []byte) cacheKey {
	return cacheKey{path: path, lang: lang, sum: xxhash.Sum64(src)}
}

func (c *resultCache) Get(key cacheKey) (models.FileResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	val, ok := c.cache.Get(key)
	if !ok {
		c.misses++
		return models.FileResult{}, false
	}
	c.hits++
	return cloneResult(val.(models.FileResult)), true
}

func (c *resultCache) Put(key cacheKey, res models.FileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, cloneResult(res))
}

// Stats returns hit and miss counts since creation.
func (c *resultCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *resultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func cloneResult(res models.FileResult) models.FileResult {
	res.Functions = slices.Clone(res.Functions)
	res.Issues = slices.Clone(res.Issues)
	return res
}
