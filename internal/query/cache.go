package query

import (
	"sync"
	"time"
)

// DefaultStaleTimes is how long a fetched value counts as fresh, per
// resource.
func DefaultStaleTimes() map[string]time.Duration {
	return map[string]time.Duration{
		"dashboard":        30 * time.Second,
		"transactions":     15 * time.Second,
		"disbursements":    15 * time.Second,
		"merchants":        time.Minute,
		"users":            time.Minute,
		"logs":             30 * time.Second,
		"payment-gateways": 5 * time.Minute,
		"roles":            5 * time.Minute,
	}
}

const defaultStaleTime = 30 * time.Second

type entry struct {
	key       Key
	value     any
	updatedAt time.Time
	stale     bool
}

// Cache holds fetched values by key. Stale values are still returned so the
// UI can keep showing them while a refetch is in flight.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	staleTimes map[string]time.Duration
	now        func() time.Time
}

func NewCache(staleTimes map[string]time.Duration) *Cache {
	if staleTimes == nil {
		staleTimes = DefaultStaleTimes()
	}
	return &Cache{
		entries:    map[string]*entry{},
		staleTimes: staleTimes,
		now:        time.Now,
	}
}

// Get returns the cached value and whether it is still fresh.
func (c *Cache) Get(key Key) (value any, fresh bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[key.String()]
	if !found {
		return nil, false, false
	}
	return e.value, !e.stale && c.now().Sub(e.updatedAt) < c.staleTime(key), true
}

func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key.String()] = &entry{key: key, value: value, updatedAt: c.now()}
}

// Invalidate marks every entry under prefix stale and returns how many
// entries matched.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.stale = true
			n++
		}
	}
	return n
}

func (c *Cache) Remove(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) staleTime(key Key) time.Duration {
	if len(key) > 0 {
		if d, ok := c.staleTimes[key[0]]; ok {
			return d
		}
	}
	return defaultStaleTime
}
