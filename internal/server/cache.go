package server

import (
	"sync"

	"github.com/gofiber/fiber/v2"
)

const cacheKey = "rtplus.cache"

// RequestCache memoizes lookups for the lifetime of a single request. Results,
// errors included, are never invalidated; the cache is dropped with the
// request.
type RequestCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	val any
	err error
}

func requestCache(c *fiber.Ctx) *RequestCache {
	if rc, ok := c.Locals(cacheKey).(*RequestCache); ok {
		return rc
	}
	rc := &RequestCache{entries: make(map[string]cacheEntry)}
	c.Locals(cacheKey, rc)
	return rc
}

// Memo returns the cached result for key, calling load at most once per
// request.
func Memo[T any](c *fiber.Ctx, key string, load func() (T, error)) (T, error) {
	rc := requestCache(c)

	rc.mu.Lock()
	e, ok := rc.entries[key]
	rc.mu.Unlock()
	if ok {
		v, _ := e.val.(T)
		return v, e.err
	}

	v, err := load()
	rc.mu.Lock()
	rc.entries[key] = cacheEntry{val: v, err: err}
	rc.mu.Unlock()
	return v, err
}
