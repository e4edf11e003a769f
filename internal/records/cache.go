package records

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// LocalCache is an in-process cache of resolved values keyed by code.
type LocalCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewLocalCache creates a cache bounded to maxItems entries.
func NewLocalCache(maxItems int64, ttl time.Duration) (*LocalCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &LocalCache{cache: cache, ttl: ttl}, nil
}

func (l *LocalCache) Get(code string) (string, bool) {
	if v, ok := l.cache.Get(code); ok {
		return v.(string), true
	}
	return "", false
}

// Set stores value with cost 1, so MaxCost counts entries.
func (l *LocalCache) Set(code, value string) {
	l.cache.SetWithTTL(code, value, 1, l.ttl)
}

// Wait blocks until pending writes are visible to Get.
func (l *LocalCache) Wait() {
	l.cache.Wait()
}

func (l *LocalCache) Close() {
	l.cache.Close()
}
