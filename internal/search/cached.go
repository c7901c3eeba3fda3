package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veridraft/veridraft/internal/cache"
)

// CachedProvider wraps a Provider with a result cache so repeated
// verification runs do not burn the call budget on identical queries.
type CachedProvider struct {
	inner Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps a provider with the given cache
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name
func (c *CachedProvider) Name() string {
	return c.inner.Name()
}

// Search serves from cache when possible. Errors are never cached.
func (c *CachedProvider) Search(ctx context.Context, query string) ([]Result, error) {
	key := cache.Key("search", c.inner.Name()+":"+query)

	if data, found := c.cache.Get(key); found {
		var results []Result
		if err := json.Unmarshal(data, &results); err == nil {
			return results, nil
		}
	}

	results, err := c.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		_ = c.cache.Set(key, data, c.ttl)
	}

	return results, nil
}
