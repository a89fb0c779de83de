package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"

	"github.com/forgo/moveyes/internal/tmdb"
)

// Catalog is an in-memory tmdb.Catalog. Movies not added with Add are
// reported as tmdb.ErrNotFound.
type Catalog struct {
	mu     sync.Mutex
	movies map[int]*tmdb.MovieDetails

	// DetailCalls counts Details lookups.
	DetailCalls atomic.Int32

	// Fail, when set, is returned by every call.
	Fail error
}

// NewCatalog creates a catalog holding the given movies.
func NewCatalog(movies ...*tmdb.MovieDetails) *Catalog {
	c := &Catalog{movies: make(map[int]*tmdb.MovieDetails)}
	for _, m := range movies {
		c.Add(m)
	}
	return c
}

// Add stores a movie.
func (c *Catalog) Add(m *tmdb.MovieDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies[m.ID] = m
}

type page struct {
	Page    int                  `json:"page"`
	Results []*tmdb.MovieDetails `json:"results"`
}

func (c *Catalog) Popular(ctx context.Context, pageNum int) (json.RawMessage, error) {
	return c.page(pageNum, func(*tmdb.MovieDetails) bool { return true })
}

func (c *Catalog) Search(ctx context.Context, query string, pageNum int) (json.RawMessage, error) {
	q := strings.ToLower(query)
	return c.page(pageNum, func(m *tmdb.MovieDetails) bool {
		return strings.Contains(strings.ToLower(m.Title), q)
	})
}

func (c *Catalog) Details(ctx context.Context, tmdbID int) (*tmdb.MovieDetails, error) {
	c.DetailCalls.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}
	m, ok := c.movies[tmdbID]
	if !ok {
		return nil, fmt.Errorf("movie %d: %w", tmdbID, tmdb.ErrNotFound)
	}
	return m, nil
}

func (c *Catalog) page(n int, keep func(*tmdb.MovieDetails) bool) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return nil, c.Fail
	}

	out := page{Page: n, Results: []*tmdb.MovieDetails{}}
	for _, m := range c.movies {
		if keep(m) {
			out.Results = append(out.Results, m)
		}
	}
	sort.Slice(out.Results, func(i, j int) bool { return out.Results[i].ID < out.Results[j].ID })
	return json.Marshal(out)
}
