package tmdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/moveyes/internal/testing/memcache"
)

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestCachedCatalog_SecondCallServedFromCache(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{}
	catalog := NewCachedCatalog(next, memcache.New(), time.Minute)

	first, err := catalog.Popular(context.Background(), 1)
	require.NoError(t, err)
	second, err := catalog.Popular(context.Background(), 1)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestCachedCatalog_DifferentPages_Separate(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{}
	catalog := NewCachedCatalog(next, memcache.New(), time.Minute)

	_, _ = catalog.Popular(context.Background(), 1)
	_, _ = catalog.Popular(context.Background(), 2)

	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedCatalog_Details_RoundTripsRaw(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{detailsFunc: func(ctx context.Context, id int) (*MovieDetails, error) {
		return ParseMovieDetails([]byte(`{"id":550,"title":"Fight Club","runtime":139}`))
	}}
	catalog := NewCachedCatalog(next, memcache.New(), time.Minute)

	_, err := catalog.Details(context.Background(), 550)
	require.NoError(t, err)
	d, err := catalog.Details(context.Background(), 550)
	require.NoError(t, err)

	assert.Equal(t, int32(1), next.calls.Load())
	out, _ := json.Marshal(d)
	assert.Contains(t, string(out), `"runtime":139`)
}

func TestCachedCatalog_Errors_NotCached(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{searchFunc: func(ctx context.Context, q string, page int) (json.RawMessage, error) {
		return nil, ErrUnavailable
	}}
	catalog := NewCachedCatalog(next, memcache.New(), time.Minute)

	_, err1 := catalog.Search(context.Background(), "x", 1)
	_, err2 := catalog.Search(context.Background(), "x", 1)

	assert.ErrorIs(t, err1, ErrUnavailable)
	assert.ErrorIs(t, err2, ErrUnavailable)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCachedCatalog_CacheFailure_FallsThrough(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{}
	catalog := NewCachedCatalog(next, failingCache{}, time.Minute)

	body, err := catalog.Popular(context.Background(), 1)

	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1}`, string(body))
}

func TestNewCachedCatalog_NilCache_ReturnsNext(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{}

	assert.Same(t, next, NewCachedCatalog(next, nil, time.Minute))
}
