package service

import (
	"context"
	"time"

	"github.com/forgo/moveyes/internal/model"
)

// WatchHistoryRepository defines the interface for watch progress storage
type WatchHistoryRepository interface {
	// Upsert writes the progress for (user, movie), replacing any earlier entry.
	Upsert(ctx context.Context, userID string, movieID int64, progress float64, watchedAt time.Time) (*model.WatchHistory, error)
	// ListByUser returns entries most recently watched first, with movies embedded.
	ListByUser(ctx context.Context, userID string) ([]*model.WatchHistory, error)
}

// WatchHistoryService tracks how far users got through movies
type WatchHistoryService struct {
	historyRepo WatchHistoryRepository
	movies      *movieResolver
	now         func() time.Time
}

// WatchHistoryServiceConfig holds configuration for the watch history service
type WatchHistoryServiceConfig struct {
	HistoryRepo WatchHistoryRepository
	MovieRepo   MovieRepository
	Catalog     MovieCatalog
}

// NewWatchHistoryService creates a new watch history service
func NewWatchHistoryService(cfg WatchHistoryServiceConfig) *WatchHistoryService {
	return &WatchHistoryService{
		historyRepo: cfg.HistoryRepo,
		movies:      newMovieResolver(cfg.MovieRepo, cfg.Catalog),
		now:         time.Now,
	}
}

// UpdateProgress records progress for a movie, caching its metadata first.
// The last write for a (user, movie) pair wins.
func (s *WatchHistoryService) UpdateProgress(ctx context.Context, userID string, req model.UpdateWatchProgressRequest) (*model.WatchHistory, error) {
	if err := model.NewValidationError(req.Validate()); err != nil {
		return nil, err
	}

	movie, err := s.movies.resolve(ctx, *req.TMDBID)
	if err != nil {
		return nil, err
	}

	entry, err := s.historyRepo.Upsert(ctx, userID, movie.ID, *req.Progress, s.now().UTC())
	if err != nil {
		return nil, err
	}
	entry.Movie = movie
	return entry, nil
}

// List returns the user's watch history, most recent first.
func (s *WatchHistoryService) List(ctx context.Context, userID string) ([]*model.WatchHistory, error) {
	entries, err := s.historyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*model.WatchHistory{}
	}
	return entries, nil
}
