package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/tmdb"
)

// MovieCatalog is the external movie metadata source.
type MovieCatalog interface {
	Popular(ctx context.Context, page int) (json.RawMessage, error)
	Search(ctx context.Context, query string, page int) (json.RawMessage, error)
	Details(ctx context.Context, tmdbID int) (*tmdb.MovieDetails, error)
}

// MovieRepository defines the interface for the local movie cache
type MovieRepository interface {
	// GetByTMDBID returns nil, nil when the movie is not cached yet.
	GetByTMDBID(ctx context.Context, tmdbID int) (*model.Movie, error)
	// Upsert inserts the movie, or returns the row already stored for its TMDB id.
	Upsert(ctx context.Context, movie *model.Movie) (*model.Movie, error)
}

// FavoriteRepository defines the interface for favorite storage
type FavoriteRepository interface {
	// Get returns nil, nil when the movie is not a favorite.
	Get(ctx context.Context, userID string, movieID int64) (*model.Favorite, error)
	// Create inserts the favorite unless it exists. created is false when an
	// existing record was returned instead.
	Create(ctx context.Context, userID string, movieID int64) (fav *model.Favorite, created bool, err error)
	// ListByUser returns favorites newest first, with movies embedded.
	ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error)
	// Delete returns the number of removed rows.
	Delete(ctx context.Context, userID string, movieID int64) (int64, error)
	ExistsByTMDBID(ctx context.Context, userID string, tmdbID int) (bool, error)
}

// MovieService handles movie browsing and favorites
type MovieService struct {
	catalog      MovieCatalog
	favoriteRepo FavoriteRepository
	movies       *movieResolver
}

// MovieServiceConfig holds configuration for the movie service
type MovieServiceConfig struct {
	Catalog      MovieCatalog
	MovieRepo    MovieRepository
	FavoriteRepo FavoriteRepository
}

// NewMovieService creates a new movie service
func NewMovieService(cfg MovieServiceConfig) *MovieService {
	return &MovieService{
		catalog:      cfg.Catalog,
		favoriteRepo: cfg.FavoriteRepo,
		movies:       newMovieResolver(cfg.MovieRepo, cfg.Catalog),
	}
}

// Popular passes a page of popular movies through from the catalog.
// Pages below 1 are treated as 1.
func (s *MovieService) Popular(ctx context.Context, page int) (json.RawMessage, error) {
	return s.catalog.Popular(ctx, max(page, 1))
}

// Search passes a page of search results through from the catalog.
func (s *MovieService) Search(ctx context.Context, query string, page int) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "q", Message: "Search query is required"},
		})
	}
	return s.catalog.Search(ctx, query, max(page, 1))
}

// Details returns the catalog's full record for one movie.
func (s *MovieService) Details(ctx context.Context, tmdbID int) (*tmdb.MovieDetails, error) {
	if tmdbID <= 0 {
		return nil, &model.InvalidIDError{Field: "movie id", Value: strconv.Itoa(tmdbID)}
	}
	details, err := s.catalog.Details(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return details, nil
}

// AddFavorite marks a movie as a favorite. Adding the same movie twice
// returns the existing record with Created false.
func (s *MovieService) AddFavorite(ctx context.Context, userID string, tmdbID int) (*model.FavoriteResult, error) {
	movie, err := s.movies.resolve(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	existing, err := s.favoriteRepo.Get(ctx, userID, movie.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Movie = movie
		return &model.FavoriteResult{Favorite: existing, Created: false}, nil
	}

	fav, created, err := s.favoriteRepo.Create(ctx, userID, movie.ID)
	if err != nil {
		return nil, err
	}
	fav.Movie = movie
	return &model.FavoriteResult{Favorite: fav, Created: created}, nil
}

// ListFavorites returns the user's favorites, newest first.
func (s *MovieService) ListFavorites(ctx context.Context, userID string) ([]*model.Favorite, error) {
	favs, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if favs == nil {
		favs = []*model.Favorite{}
	}
	return favs, nil
}

// RemoveFavorite deletes the favorite for the given local movie id.
func (s *MovieService) RemoveFavorite(ctx context.Context, userID string, movieID int64) error {
	removed, err := s.favoriteRepo.Delete(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// IsFavorite reports whether the user has favorited the TMDB movie.
func (s *MovieService) IsFavorite(ctx context.Context, userID string, tmdbID int) (bool, error) {
	return s.favoriteRepo.ExistsByTMDBID(ctx, userID, tmdbID)
}

// movieResolver finds a movie in the local cache, fetching and storing it
// from the catalog on a miss.
type movieResolver struct {
	repo    MovieRepository
	catalog MovieCatalog
}

func newMovieResolver(repo MovieRepository, catalog MovieCatalog) *movieResolver {
	return &movieResolver{repo: repo, catalog: catalog}
}

func (r *movieResolver) resolve(ctx context.Context, tmdbID int) (*model.Movie, error) {
	if tmdbID <= 0 {
		return nil, &model.InvalidIDError{Field: "tmdbId", Value: strconv.Itoa(tmdbID)}
	}

	movie, err := r.repo.GetByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	if movie != nil {
		return movie, nil
	}

	details, err := r.catalog.Details(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	stored, err := r.repo.Upsert(ctx, movieFromDetails(details))
	if err != nil {
		return nil, err
	}
	slog.Debug("cached movie metadata", slog.Int("tmdb_id", tmdbID), slog.Int64("movie_id", stored.ID))
	return stored, nil
}

func movieFromDetails(d *tmdb.MovieDetails) *model.Movie {
	m := &model.Movie{
		TMDBID:       d.ID,
		Title:        d.Title,
		Overview:     d.Overview,
		PosterPath:   d.PosterPath,
		BackdropPath: d.BackdropPath,
		VoteAverage:  d.VoteAverage,
	}
	if d.ReleaseDate != "" {
		if t, err := time.Parse(time.DateOnly, d.ReleaseDate); err == nil {
			m.ReleaseDate = &t
		}
	}
	return m
}
