package embedder

import (
	"context"

	"github.com/dgraph-io/ristretto"
)

// Cached wraps an Embedder with a ristretto cache keyed by input text, so
// re-submitted content (retries, repeated queries) skips recomputation.
// Embedding is the dominant cost of a semantic write; the cache is safe
// because embeddings are pure functions of their input.
type Cached struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCached creates a caching decorator holding up to maxEntries vectors.
func NewCached(inner Embedder, maxEntries int64) (*Cached, error) {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, computing and storing it on miss.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if val, ok := c.cache.Get(text); ok {
		if vec, ok := val.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, vec, 1)
	return vec, nil
}

// Dimensions returns the wrapped embedder's vector size.
func (c *Cached) Dimensions() int {
	return c.inner.Dimensions()
}

// Close releases the cache.
func (c *Cached) Close() {
	c.cache.Close()
}
