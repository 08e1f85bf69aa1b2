package llm

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/logging"
	"github.com/vamg1994/content-creation-vam/internal/metrics"
)

// CachedGenerator memoizes a Generator by method and full request. Errors
// are not cached.
type CachedGenerator struct {
	next  Generator
	cache *gocache.Cache
}

var _ Generator = (*CachedGenerator)(nil)

// NewCachedGenerator wraps next. A ttl of zero keeps entries until the
// process exits.
func NewCachedGenerator(next Generator, ttl time.Duration) *CachedGenerator {
	expiration, cleanup := gocache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, 2*ttl
	}
	return &CachedGenerator{next: next, cache: gocache.New(expiration, cleanup)}
}

// Len returns the number of cached entries, including expired ones not yet
// cleaned up.
func (c *CachedGenerator) Len() int { return c.cache.ItemCount() }

// Flush drops every cached entry.
func (c *CachedGenerator) Flush() { c.cache.Flush() }

func cached[T any](ctx context.Context, c *CachedGenerator, method string, req any, call func() (T, error)) (T, error) {
	var zero T
	b, err := json.Marshal(req)
	if err != nil {
		return zero, err
	}
	key := method + ":" + string(b)

	if v, ok := c.cache.Get(key); ok {
		if out, ok := v.(T); ok {
			metrics.GenerationCacheTotal.WithLabelValues("hit").Inc()
			logging.FromContext(ctx).Debug("generation cache hit", "method", method)
			return out, nil
		}
	}
	metrics.GenerationCacheTotal.WithLabelValues("miss").Inc()

	out, err := call()
	if err != nil {
		return zero, err
	}
	c.cache.SetDefault(key, out)
	return out, nil
}

func (c *CachedGenerator) Carousel(ctx context.Context, req CarouselRequest) ([]deck.SlideRecord, error) {
	return cached(ctx, c, "carousel", req, func() ([]deck.SlideRecord, error) { return c.next.Carousel(ctx, req) })
}

func (c *CachedGenerator) Post(ctx context.Context, req PostRequest) (string, error) {
	return cached(ctx, c, "post", req, func() (string, error) { return c.next.Post(ctx, req) })
}

func (c *CachedGenerator) Ideas(ctx context.Context, req IdeasRequest) (string, error) {
	return cached(ctx, c, "ideas", req, func() (string, error) { return c.next.Ideas(ctx, req) })
}

func (c *CachedGenerator) Images(ctx context.Context, req ImagesRequest) ([]Image, error) {
	return cached(ctx, c, "images", req, func() ([]Image, error) { return c.next.Images(ctx, req) })
}

func (c *CachedGenerator) Caption(ctx context.Context, description string) (string, error) {
	return cached(ctx, c, "caption", description, func() (string, error) { return c.next.Caption(ctx, description) })
}
