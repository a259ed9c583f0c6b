package holiday

import (
	"context"
	"sync"
	"time"

	"github.com/warp/njob-manager/wage"
)

// =============================================================================
// CACHE - Per-date answers with a TTL
// =============================================================================

// Cache remembers holiday answers per date. It is safe for concurrent use.
// The zero value is not usable; call NewCache.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[time.Time]cacheEntry
}

type cacheEntry struct {
	holiday   bool
	expiresAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a cache whose entries live for ttl. A non-positive ttl
// disables caching: Put is ignored and Get always misses.
func NewCache(ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[time.Time]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached answer for date and whether it was present and fresh.
func (c *Cache) Get(date time.Time) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[wage.DateOf(date)]
	if !ok || !c.now().Before(e.expiresAt) {
		return false, false
	}
	return e.holiday, true
}

// Put stores the answer for date.
func (c *Cache) Put(date time.Time, holiday bool) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[wage.DateOf(date)] = cacheEntry{holiday: holiday, expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops every entry. Call it after the holiday list changes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[time.Time]cacheEntry)
}

// Purge removes expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for day, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, day)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// =============================================================================
// CACHED CALENDAR
// =============================================================================

// CachedCalendar answers from a Cache and falls through to the wrapped
// Calendar on a miss. Errors are not cached.
type CachedCalendar struct {
	Calendar Calendar
	Cache    *Cache
}

// Cached wraps cal with cache.
func Cached(cal Calendar, cache *Cache) *CachedCalendar {
	return &CachedCalendar{Calendar: cal, Cache: cache}
}

func (c *CachedCalendar) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	if v, ok := c.Cache.Get(date); ok {
		return v, nil
	}
	v, err := c.Calendar.IsHoliday(ctx, date)
	if err != nil {
		return false, err
	}
	c.Cache.Put(date, v)
	return v, nil
}
