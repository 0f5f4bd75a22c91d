package client

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// cacheMaxEntries bounds the response cache. The dashboard only caches a
// handful of report queries, so a small cap with best-effort eviction is
// plenty.
const cacheMaxEntries = 256

// cacheEntry is a cached successful GET response with expiry.
type cacheEntry struct {
	resp      *Response
	expiresAt time.Time
	createdAt time.Time
}

// responseCache is a TTL cache for successful GET responses. Entries carry
// their own TTL (per-request CacheTTL).
type responseCache struct {
	entries sync.Map // uint64 -> *cacheEntry
	mu      sync.Mutex
	count   int64
}

// cacheKey generates a unique hash for a request. Includes method, path, and
// encoded query for collision resistance.
func cacheKey(req Request) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(req.Method)
	_, _ = h.Write([]byte{0}) // separator
	_, _ = h.WriteString(req.Path)
	_, _ = h.Write([]byte{0})
	if req.Query != nil {
		_, _ = h.WriteString(req.Query.Encode())
	}
	return h.Sum64()
}

// get retrieves a cached response if it exists and hasn't expired.
func (c *responseCache) get(key uint64) (*Response, bool) {
	val, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	entry := val.(*cacheEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(key)
		c.mu.Lock()
		c.count--
		c.mu.Unlock()
		return nil, false
	}
	return entry.resp, true
}

// put stores a response with the given TTL.
func (c *responseCache) put(key uint64, resp *Response, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Best-effort eviction: when at capacity, sweep expired entries, then
	// fall back to evicting the oldest.
	if c.count >= cacheMaxEntries {
		now := time.Now()
		evicted := int64(0)
		c.entries.Range(func(k, v any) bool {
			if now.After(v.(*cacheEntry).expiresAt) {
				c.entries.Delete(k)
				evicted++
			}
			return true
		})
		c.count -= evicted

		if c.count >= cacheMaxEntries {
			var oldest time.Time
			var oldestKey any
			c.entries.Range(func(k, v any) bool {
				entry := v.(*cacheEntry)
				if oldest.IsZero() || entry.createdAt.Before(oldest) {
					oldest = entry.createdAt
					oldestKey = k
				}
				return true
			})
			if oldestKey != nil {
				c.entries.Delete(oldestKey)
				c.count--
			}
		}
	}

	now := time.Now()
	c.entries.Store(key, &cacheEntry{
		resp:      resp,
		expiresAt: now.Add(ttl),
		createdAt: now,
	})
	c.count++
}
