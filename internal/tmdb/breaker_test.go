package tmdb

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCatalog is a function-field Catalog that counts calls.
type mockCatalog struct {
	calls       atomic.Int32
	popularFunc func(ctx context.Context, page int) (json.RawMessage, error)
	searchFunc  func(ctx context.Context, query string, page int) (json.RawMessage, error)
	detailsFunc func(ctx context.Context, id int) (*MovieDetails, error)
}

func (m *mockCatalog) Popular(ctx context.Context, page int) (json.RawMessage, error) {
	m.calls.Add(1)
	if m.popularFunc != nil {
		return m.popularFunc(ctx, page)
	}
	return json.RawMessage(`{"page":1}`), nil
}

func (m *mockCatalog) Search(ctx context.Context, query string, page int) (json.RawMessage, error) {
	m.calls.Add(1)
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, page)
	}
	return json.RawMessage(`{"results":[]}`), nil
}

func (m *mockCatalog) Details(ctx context.Context, id int) (*MovieDetails, error) {
	m.calls.Add(1)
	if m.detailsFunc != nil {
		return m.detailsFunc(ctx, id)
	}
	return ParseMovieDetails([]byte(`{"id":550,"title":"Fight Club"}`))
}

func testBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MinRequests:  3,
		FailureRatio: 0.5,
		Timeout:      time.Hour,
	}
}

func TestCircuitBreaker_Success_PassesThrough(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{}
	cb := NewCircuitBreakerClient(next, testBreakerConfig("test-success"))

	body, err := cb.Popular(context.Background(), 1)

	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1}`, string(body))

	d, err := cb.Details(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", d.Title)
}

func TestCircuitBreaker_RepeatedFailures_OpensCircuit(t *testing.T) {
	t.Parallel()
	failure := &UpstreamError{StatusCode: 500, Endpoint: "popular"}
	next := &mockCatalog{popularFunc: func(ctx context.Context, page int) (json.RawMessage, error) {
		return nil, failure
	}}
	cb := NewCircuitBreakerClient(next, testBreakerConfig("test-open"))

	for i := 0; i < 3; i++ {
		_, err := cb.Popular(context.Background(), 1)
		assert.ErrorIs(t, err, failure)
	}
	require.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := cb.Popular(context.Background(), 1)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), next.calls.Load(), "open circuit must not reach the catalog")
}

func TestCircuitBreaker_NotFound_DoesNotTrip(t *testing.T) {
	t.Parallel()
	next := &mockCatalog{detailsFunc: func(ctx context.Context, id int) (*MovieDetails, error) {
		return nil, ErrNotFound
	}}
	cb := NewCircuitBreakerClient(next, testBreakerConfig("test-notfound"))

	for i := 0; i < 5; i++ {
		_, err := cb.Details(context.Background(), 1)
		assert.True(t, errors.Is(err, ErrNotFound))
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
