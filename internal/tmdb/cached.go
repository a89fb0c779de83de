package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/forgo/moveyes/internal/cache"
	"github.com/forgo/moveyes/internal/metrics"
)

// CachedCatalog serves repeated metadata requests from a cache. Cache
// failures are logged and fall through to the wrapped catalog.
type CachedCatalog struct {
	next  Catalog
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedCatalog wraps next with c. A nil cache disables caching.
func NewCachedCatalog(next Catalog, c cache.Cache, ttl time.Duration) Catalog {
	if c == nil {
		return next
	}
	return &CachedCatalog{next: next, cache: c, ttl: ttl}
}

func (c *CachedCatalog) Popular(ctx context.Context, page int) (json.RawMessage, error) {
	return c.raw(ctx, "tmdb:popular:"+strconv.Itoa(page), func() (json.RawMessage, error) {
		return c.next.Popular(ctx, page)
	})
}

func (c *CachedCatalog) Search(ctx context.Context, query string, page int) (json.RawMessage, error) {
	key := "tmdb:search:" + strings.ToLower(query) + ":" + strconv.Itoa(page)
	return c.raw(ctx, key, func() (json.RawMessage, error) {
		return c.next.Search(ctx, query, page)
	})
}

func (c *CachedCatalog) Details(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	key := "tmdb:movie:" + strconv.Itoa(tmdbID)
	if body, ok := c.lookup(ctx, key); ok {
		if d, err := ParseMovieDetails(body); err == nil {
			return d, nil
		}
	}

	d, err := c.next.Details(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, d.Raw)
	return d, nil
}

func (c *CachedCatalog) raw(ctx context.Context, key string, fetch func() (json.RawMessage, error)) (json.RawMessage, error) {
	if body, ok := c.lookup(ctx, key); ok {
		return json.RawMessage(body), nil
	}
	body, err := fetch()
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, body)
	return body, nil
}

func (c *CachedCatalog) lookup(ctx context.Context, key string) ([]byte, bool) {
	body, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return body, true
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		slog.Warn("metadata cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil, false
}

func (c *CachedCatalog) store(ctx context.Context, key string, body []byte) {
	if len(body) == 0 {
		return
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		slog.Warn("metadata cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

var _ Catalog = (*CachedCatalog)(nil)
