package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/3/", APIKey: "test-key"})
}

func TestClient_Popular_PassesBodyThrough(t *testing.T) {
	t.Parallel()
	var gotPath, gotKey, gotPage string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotPage = r.URL.Query().Get("page")
		_, _ = w.Write([]byte(`{"page":2,"results":[{"id":550,"title":"Fight Club"}]}`))
	})

	body, err := client.Popular(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "/3/movie/popular", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "2", gotPage)
	assert.JSONEq(t, `{"page":2,"results":[{"id":550,"title":"Fight Club"}]}`, string(body))
}

func TestClient_Search_SendsQuery(t *testing.T) {
	t.Parallel()
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.Search(context.Background(), "the matrix", 1)

	require.NoError(t, err)
	assert.Equal(t, "the matrix", gotQuery)
}

func TestClient_Details_ParsesAndKeepsRaw(t *testing.T) {
	t.Parallel()
	payload := `{"id":550,"title":"Fight Club","overview":"...","poster_path":"/p.jpg","backdrop_path":null,"release_date":"1999-10-15","vote_average":8.4,"runtime":139}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/550", r.URL.Path)
		_, _ = w.Write([]byte(payload))
	})

	d, err := client.Details(context.Background(), 550)

	require.NoError(t, err)
	assert.Equal(t, 550, d.ID)
	assert.Equal(t, "Fight Club", d.Title)
	assert.Equal(t, "/p.jpg", d.PosterPath)
	assert.Empty(t, d.BackdropPath)
	assert.Equal(t, "1999-10-15", d.ReleaseDate)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"runtime":139`, "fields not modelled locally must survive")
}

func TestClient_NotFound_ReturnsErrNotFound(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	})

	_, err := client.Details(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ServerError_ReturnsUpstreamError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	})

	_, err := client.Popular(context.Background(), 1)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr), "expected *UpstreamError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, "Invalid API key", upErr.Message)
	assert.Equal(t, "popular", upErr.Endpoint)
}

func TestClient_TransportError_RedactsKey(t *testing.T) {
	t.Parallel()
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", APIKey: "secret-key"})

	_, err := client.Popular(context.Background(), 1)

	require.ErrorIs(t, err, ErrRequestFailed)
	assert.False(t, strings.Contains(err.Error(), "secret-key"), "api key leaked: %v", err)
}

func TestClient_CancelledContext_ReturnsContextError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Popular(ctx, 1)

	assert.ErrorIs(t, err, context.Canceled)
}
