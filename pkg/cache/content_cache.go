package cache

import (
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultTTL           = 5 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

type Stats struct {
	Items int      `json:"items"`
	Keys  []string `json:"keys"`
}

// ContentCache is a process-lifetime TTL store for chunk lists and
// embeddings. The go-cache janitor sweeps expired items on the sweep
// interval; reads past expiry evict the key as well.
type ContentCache struct {
	store      *gocache.Cache
	defaultTTL time.Duration
}

func New(defaultTTL, sweepInterval time.Duration) *ContentCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	return &ContentCache{
		store:      gocache.New(defaultTTL, sweepInterval),
		defaultTTL: defaultTTL,
	}
}

func NewDefault() *ContentCache {
	return New(DefaultTTL, DefaultSweepInterval)
}

// Set stores value for ttl. A ttl <= 0 uses the default TTL.
func (c *ContentCache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.store.Set(key, value, ttl)
}

func (c *ContentCache) Get(key string) (interface{}, bool) {
	if value, found := c.store.Get(key); found {
		return value, true
	}
	// go-cache keeps expired items until the janitor runs.
	c.store.Delete(key)
	return nil, false
}

func (c *ContentCache) Has(key string) bool {
	_, found := c.Get(key)
	return found
}

func (c *ContentCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *ContentCache) Clear() {
	c.store.Flush()
}

func (c *ContentCache) ItemCount() int {
	return c.store.ItemCount()
}

func (c *ContentCache) Stats() Stats {
	items := c.store.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Items: len(keys), Keys: keys}
}
