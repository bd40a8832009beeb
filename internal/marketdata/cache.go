package marketdata

import (
	"sync"
	"time"
)

// Cache stores snapshots between provider calls. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(symbol string) (FundamentalsSnapshot, bool)
	Set(symbol string, snap FundamentalsSnapshot)
}

type cacheEntry struct {
	snap      FundamentalsSnapshot
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded TTL map. Entries expire lazily on read, so
// an idle cache holds stale entries but never serves them.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewMemoryCache returns a cache whose entries expire ttl after they are
// written. A non-positive ttl keeps entries until overwritten.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached snapshot for symbol if it is still fresh.
func (c *MemoryCache) Get(symbol string) (FundamentalsSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return FundamentalsSnapshot{}, false
	}
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		delete(c.entries, symbol)
		return FundamentalsSnapshot{}, false
	}
	return entry.snap, true
}

// Set stores snap for symbol, restarting its expiry clock.
func (c *MemoryCache) Set(symbol string, snap FundamentalsSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = cacheEntry{snap: snap, expiresAt: c.now().Add(c.ttl)}
}
