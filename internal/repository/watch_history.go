package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// WatchHistoryRepository handles watch progress data access
type WatchHistoryRepository struct {
	db database.Database
}

// NewWatchHistoryRepository creates a new watch history repository
func NewWatchHistoryRepository(db database.Database) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Upsert records progress for (user, movie). A later write replaces an
// earlier one.
func (r *WatchHistoryRepository) Upsert(ctx context.Context, userID string, movieID int64, progress float64, watchedAt time.Time) (*model.WatchHistory, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.WatchHistory, error) {
		var h model.WatchHistory
		err := r.db.QueryRow(ctx, `
			INSERT INTO watch_history (user_id, movie_id, progress, watched_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, movie_id) DO UPDATE
			SET progress = EXCLUDED.progress, watched_at = EXCLUDED.watched_at
			RETURNING id, user_id, movie_id, progress, watched_at`,
			userID, movieID, progress, watchedAt,
		).Scan(&h.ID, &h.UserID, &h.MovieID, &h.Progress, &h.WatchedAt)
		if err != nil {
			return nil, err
		}
		return &h, nil
	})
}

// ListByUser returns the user's entries most recently watched first.
func (r *WatchHistoryRepository) ListByUser(ctx context.Context, userID string) ([]*model.WatchHistory, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) ([]*model.WatchHistory, error) {
		rows, err := r.db.Query(ctx, `
			SELECT w.id, w.user_id, w.movie_id, w.progress, w.watched_at, `+movieColumns+`
			FROM watch_history w
			JOIN movies m ON m.id = w.movie_id
			WHERE w.user_id = $1
			ORDER BY w.watched_at DESC, w.id DESC`,
			userID,
		)
		if err != nil {
			return nil, err
		}
		return collect("list watch history", rows, func(row pgx.CollectableRow) (*model.WatchHistory, error) {
			h := &model.WatchHistory{Movie: &model.Movie{}}
			dest := append([]any{&h.ID, &h.UserID, &h.MovieID, &h.Progress, &h.WatchedAt}, movieDest(h.Movie)...)
			return h, row.Scan(dest...)
		})
	})
}
