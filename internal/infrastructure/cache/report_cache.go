package cache

import (
	"sync"
	"time"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

// CacheEntry represents a cached query result with the time it was stored
type CacheEntry struct {
	Result    *entity.QueryResult
	Timestamp time.Time
}

// ReportCache provides a thread-safe in-memory cache for report query results.
// The table only changes once per ETL run, so results are reused until they expire.
type ReportCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewReportCache creates a new report cache; a non-positive ttl disables caching
func NewReportCache(ttl time.Duration) *ReportCache {
	return &ReportCache{
		cache:      make(map[string]CacheEntry),
		expiration: ttl,
		now:        time.Now,
	}
}

// Get retrieves a result from the cache if available and not expired
func (c *ReportCache) Get(name string) *entity.QueryResult {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[name]
	if !exists || c.now().Sub(entry.Timestamp) > c.expiration {
		return nil
	}

	return entry.Result
}

// Put stores a result under the report name
func (c *ReportCache) Put(name string, result *entity.QueryResult) {
	if c.expiration <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[name] = CacheEntry{
		Result:    result,
		Timestamp: c.now(),
	}
}

// Clear clears all entries from the cache
func (c *ReportCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// Size returns the number of items in the cache
func (c *ReportCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *ReportCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}
