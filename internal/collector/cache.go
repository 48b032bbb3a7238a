package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/marstr/collection/v2"
)

type cachedDocument struct {
	body      []byte
	fetchedAt time.Time
}

// CachedFetcher keeps the most recent raw documents in an LRU cache and
// serves them while they are younger than TTL.
type CachedFetcher struct {
	Passthrough Fetcher
	TTL         time.Duration

	mu        sync.Mutex
	underlyer *collection.LRUCache[string, cachedDocument]
	now       func() time.Time
}

// NewCachedFetcher wraps passthru with a cache holding up to capacity documents.
func NewCachedFetcher(passthru Fetcher, capacity uint, ttl time.Duration) *CachedFetcher {
	if capacity == 0 {
		capacity = 1
	}
	return &CachedFetcher{
		Passthrough: passthru,
		TTL:         ttl,
		underlyer:   collection.NewLRUCache[string, cachedDocument](capacity),
		now:         time.Now,
	}
}

func (c *CachedFetcher) Name() string { return c.Passthrough.Name() }

func (c *CachedFetcher) FetchQuotes(ctx context.Context, req Request) ([]byte, error) {
	if c.TTL <= 0 {
		return c.Passthrough.FetchQuotes(ctx, req)
	}
	key := req.Key()
	staleAt := c.now().Add(-c.TTL)

	c.mu.Lock()
	val, ok := c.underlyer.Get(key)
	c.mu.Unlock()
	if ok && val.fetchedAt.After(staleAt) {
		log.Printf("[INFO] returning cached quotes for %s", key)
		return clone(val.body), nil
	}

	body, err := c.Passthrough.FetchQuotes(ctx, req)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.underlyer.Put(key, cachedDocument{body: clone(body), fetchedAt: c.now()})
	c.mu.Unlock()
	return body, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
