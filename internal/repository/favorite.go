package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// FavoriteRepository handles favorite data access
type FavoriteRepository struct {
	db database.Database
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db database.Database) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Get returns nil, nil when the movie is not one of the user's favorites.
func (r *FavoriteRepository) Get(ctx context.Context, userID string, movieID int64) (*model.Favorite, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.Favorite, error) {
		return notFoundAsNil(r.get(ctx, userID, movieID))
	})
}

func (r *FavoriteRepository) get(ctx context.Context, userID string, movieID int64) (*model.Favorite, error) {
	var f model.Favorite
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, movie_id, created_at FROM favorites WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID,
	).Scan(&f.ID, &f.UserID, &f.MovieID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts the favorite. If the pair already exists, including when a
// concurrent request inserted it first, the stored record is returned with
// created false.
func (r *FavoriteRepository) Create(ctx context.Context, userID string, movieID int64) (*model.Favorite, bool, error) {
	type result struct {
		fav     *model.Favorite
		created bool
	}

	res, err := database.WithRetry(ctx, r.db, func(ctx context.Context) (result, error) {
		var f model.Favorite
		err := r.db.QueryRow(ctx, `
			INSERT INTO favorites (user_id, movie_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, movie_id) DO NOTHING
			RETURNING id, user_id, movie_id, created_at`,
			userID, movieID,
		).Scan(&f.ID, &f.UserID, &f.MovieID, &f.CreatedAt)
		if err == nil {
			return result{fav: &f, created: true}, nil
		}
		if !isNotFound(err) {
			return result{}, err
		}

		existing, err := r.get(ctx, userID, movieID)
		if err != nil {
			return result{}, err
		}
		return result{fav: existing}, nil
	})
	return res.fav, res.created, err
}

// ListByUser returns the user's favorites newest first, movies embedded.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) ([]*model.Favorite, error) {
		rows, err := r.db.Query(ctx, `
			SELECT f.id, f.user_id, f.movie_id, f.created_at, `+movieColumns+`
			FROM favorites f
			JOIN movies m ON m.id = f.movie_id
			WHERE f.user_id = $1
			ORDER BY f.created_at DESC, f.id DESC`,
			userID,
		)
		if err != nil {
			return nil, err
		}
		return collect("list favorites", rows, func(row pgx.CollectableRow) (*model.Favorite, error) {
			f := &model.Favorite{Movie: &model.Movie{}}
			dest := append([]any{&f.ID, &f.UserID, &f.MovieID, &f.CreatedAt}, movieDest(f.Movie)...)
			return f, row.Scan(dest...)
		})
	})
}

// Delete removes the favorite and returns the number of rows removed.
func (r *FavoriteRepository) Delete(ctx context.Context, userID string, movieID int64) (int64, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (int64, error) {
		tag, err := r.db.Exec(ctx,
			`DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
}

// ExistsByTMDBID reports whether the user favorited the movie with this TMDB id.
func (r *FavoriteRepository) ExistsByTMDBID(ctx context.Context, userID string, tmdbID int) (bool, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (bool, error) {
		var exists bool
		err := r.db.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM favorites f
				JOIN movies m ON m.id = f.movie_id
				WHERE f.user_id = $1 AND m.tmdb_id = $2
			)`,
			userID, tmdbID,
		).Scan(&exists)
		return exists, err
	})
}
