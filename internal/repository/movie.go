package repository

import (
	"context"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// MovieRepository handles the local cache of TMDB movie metadata
type MovieRepository struct {
	db database.Database
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db database.Database) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetByTMDBID returns nil, nil when the movie has not been cached.
func (r *MovieRepository) GetByTMDBID(ctx context.Context, tmdbID int) (*model.Movie, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.Movie, error) {
		var m model.Movie
		err := r.db.QueryRow(ctx,
			`SELECT `+movieColumns+` FROM movies m WHERE m.tmdb_id = $1`, tmdbID,
		).Scan(movieDest(&m)...)
		return notFoundAsNil(&m, err)
	})
}

// Upsert stores the movie. When another request cached the same TMDB id
// first, the stored row is returned unchanged.
func (r *MovieRepository) Upsert(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.Movie, error) {
		var m model.Movie
		err := r.db.QueryRow(ctx, `
			INSERT INTO movies AS m (tmdb_id, title, overview, poster_path, backdrop_path, release_date, vote_average)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (tmdb_id) DO UPDATE SET tmdb_id = m.tmdb_id
			RETURNING `+movieColumns,
			movie.TMDBID, movie.Title, movie.Overview, movie.PosterPath,
			movie.BackdropPath, movie.ReleaseDate, movie.VoteAverage,
		).Scan(movieDest(&m)...)
		if err != nil {
			return nil, err
		}
		return &m, nil
	})
}
