// Package tmdb fetches movie metadata from The Movie Database API.
//
// Client talks HTTP. CircuitBreakerClient stops calling TMDB while it is
// failing and CachedCatalog keeps recent responses in a cache. Both wrap a
// Catalog, so they stack:
//
//	var catalog tmdb.Catalog = tmdb.NewClient(cfg)
//	catalog = tmdb.NewCircuitBreakerClient(catalog, tmdb.BreakerConfig{})
//	catalog = tmdb.NewCachedCatalog(catalog, redisCache, 10*time.Minute)
//
// List endpoints return the TMDB JSON untouched so it can be passed through
// to API clients.
package tmdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/forgo/moveyes/internal/metrics"
)

// maxBodySize caps how much of a TMDB response is read.
const maxBodySize = 4 << 20

// Catalog is the movie metadata surface the rest of the API depends on.
type Catalog interface {
	Popular(ctx context.Context, page int) (json.RawMessage, error)
	Search(ctx context.Context, query string, page int) (json.RawMessage, error)
	Details(ctx context.Context, tmdbID int) (*MovieDetails, error)
}

// MovieDetails is the part of a TMDB movie record that is cached locally.
// The full response is kept in Raw and is what gets marshalled back out.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON writes the original TMDB payload when there is one.
func (d *MovieDetails) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	type plain MovieDetails
	return json.Marshal((*plain)(d))
}

// ParseMovieDetails decodes a TMDB movie record, keeping the raw bytes.
func ParseMovieDetails(body []byte) (*MovieDetails, error) {
	var d MovieDetails
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode movie details: %w", err)
	}
	d.Raw = append(json.RawMessage(nil), body...)
	return &d, nil
}

// Config holds TMDB client settings
type Config struct {
	BaseURL    string
	APIKey     string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls the TMDB v3 REST API.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *http.Client
}

// NewClient creates a new TMDB client
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	lang := cfg.Language
	if lang == "" {
		lang = "en-US"
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: lang,
		http:     httpClient,
	}
}

// Popular returns one page of TMDB's popular movies.
func (c *Client) Popular(ctx context.Context, page int) (json.RawMessage, error) {
	body, err := c.get(ctx, "popular", "/movie/popular", url.Values{
		"page": {strconv.Itoa(page)},
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Search returns one page of movies matching query.
func (c *Client) Search(ctx context.Context, query string, page int) (json.RawMessage, error) {
	body, err := c.get(ctx, "search", "/search/movie", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(page)},
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Details returns the full record for one movie.
func (c *Client) Details(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	body, err := c.get(ctx, "details", "/movie/"+strconv.Itoa(tmdbID), nil)
	if err != nil {
		return nil, err
	}
	return ParseMovieDetails(body)
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRequestFailed, endpoint, redactKey(err.Error(), c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: read %s: %v", ErrRequestFailed, endpoint, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.TMDBRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    statusMessage(body),
		}
	}

	metrics.TMDBRequestsTotal.WithLabelValues(endpoint, "success").Inc()
	return bytes.TrimSpace(body), nil
}

// statusMessage pulls status_message out of a TMDB error body.
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.StatusMessage
}

func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	return strings.ReplaceAll(s, key, "REDACTED")
}

var _ Catalog = (*Client)(nil)
