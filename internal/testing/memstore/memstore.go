// Package memstore is an in-memory implementation of the repository
// interfaces the services depend on. It mirrors the PostgreSQL
// repositories' contracts (nil, nil for missing rows, database.ErrDuplicate
// for a taken email, idempotent favorites, last-write-wins progress) so
// handler and service tests can run without a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// Store holds every table. The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	users    map[string]*model.User
	profiles map[string]*model.Profile
	movies   map[int64]*model.Movie
	favs     []*model.Favorite
	history  []*model.WatchHistory

	nextID int64
	now    func() time.Time

	// Fail, when set, is returned by every operation. Tests use it to
	// simulate an unreachable database.
	Fail error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		profiles: make(map[string]*model.Profile),
		movies:   make(map[int64]*model.Movie),
		now:      time.Now,
	}
}

// SetClock replaces the store's time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Users returns a UserRepository view of the store.
func (s *Store) Users() *Users { return &Users{s} }

// Profiles returns a ProfileRepository view of the store.
func (s *Store) Profiles() *Profiles { return &Profiles{s} }

// Movies returns a MovieRepository view of the store.
func (s *Store) Movies() *Movies { return &Movies{s} }

// Favorites returns a FavoriteRepository view of the store.
func (s *Store) Favorites() *Favorites { return &Favorites{s} }

// WatchHistory returns a WatchHistoryRepository view of the store.
func (s *Store) WatchHistory() *WatchHistory { return &WatchHistory{s} }

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// ============================================================================
// Users
// ============================================================================

type Users struct{ s *Store }

func (r *Users) Create(ctx context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}

	for _, u := range s.users {
		if u.Email == user.Email {
			return &database.Error{Kind: database.KindDuplicate, Op: "create user", Err: fmt.Errorf("email %q taken", user.Email)}
		}
	}

	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	s.users[user.ID] = &cp
	s.profiles[user.ID] = &model.Profile{
		ID:          s.id(),
		UserID:      user.ID,
		Hobbies:     []string{},
		SocialMedia: map[string]string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return nil
}

func (r *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *Users) find(match func(*model.User) bool) (*model.User, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ============================================================================
// Profiles
// ============================================================================

type Profiles struct{ s *Store }

func (r *Profiles) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.profileLocked(userID), nil
}

func (r *Profiles) Update(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.Profile, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	p, ok := s.profiles[userID]
	if !ok {
		return nil, &database.Error{Kind: database.KindNotFound, Op: "update profile", Err: database.ErrNotFound}
	}

	now := s.now()
	if req.Name != nil {
		if u, ok := s.users[userID]; ok {
			u.Name = *req.Name
			u.UpdatedAt = now
		}
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
	}
	if req.Nickname != nil {
		p.Nickname = *req.Nickname
	}
	if req.Hobbies != nil {
		p.Hobbies = append([]string{}, *req.Hobbies...)
	}
	if req.SocialMedia != nil {
		p.SocialMedia = make(map[string]string, len(*req.SocialMedia))
		for k, v := range *req.SocialMedia {
			p.SocialMedia[k] = v
		}
	}
	p.UpdatedAt = now
	return s.profileLocked(userID), nil
}

func (s *Store) profileLocked(userID string) *model.Profile {
	p, ok := s.profiles[userID]
	if !ok {
		return nil
	}
	cp := *p
	if u, ok := s.users[userID]; ok {
		sum := u.Summary()
		cp.User = &sum
	}
	return &cp
}

// ============================================================================
// Movies
// ============================================================================

type Movies struct{ s *Store }

func (r *Movies) GetByTMDBID(ctx context.Context, tmdbID int) (*model.Movie, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.movieByTMDBLocked(tmdbID), nil
}

func (r *Movies) Upsert(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	if existing := s.movieByTMDBLocked(movie.TMDBID); existing != nil {
		return existing, nil
	}

	cp := *movie
	cp.ID = s.id()
	cp.CreatedAt = s.now()
	s.movies[cp.ID] = &cp
	out := cp
	return &out, nil
}

// MovieCount reports how many movies are cached.
func (s *Store) MovieCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movies)
}

func (s *Store) movieByTMDBLocked(tmdbID int) *model.Movie {
	for _, m := range s.movies {
		if m.TMDBID == tmdbID {
			cp := *m
			return &cp
		}
	}
	return nil
}

func (s *Store) movieLocked(id int64) *model.Movie {
	m, ok := s.movies[id]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

// ============================================================================
// Favorites
// ============================================================================

type Favorites struct{ s *Store }

func (r *Favorites) Get(ctx context.Context, userID string, movieID int64) (*model.Favorite, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	return s.favoriteLocked(userID, movieID), nil
}

func (r *Favorites) Create(ctx context.Context, userID string, movieID int64) (*model.Favorite, bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, false, s.Fail
	}
	if existing := s.favoriteLocked(userID, movieID); existing != nil {
		return existing, false, nil
	}

	f := &model.Favorite{ID: s.id(), UserID: userID, MovieID: movieID, CreatedAt: s.now()}
	s.favs = append(s.favs, f)
	cp := *f
	return &cp, true, nil
}

func (r *Favorites) ListByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	var out []*model.Favorite
	for _, f := range s.favs {
		if f.UserID == userID {
			cp := *f
			cp.Movie = s.movieLocked(f.MovieID)
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Favorites) Delete(ctx context.Context, userID string, movieID int64) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return 0, s.Fail
	}

	var removed int64
	kept := s.favs[:0]
	for _, f := range s.favs {
		if f.UserID == userID && f.MovieID == movieID {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.favs = kept
	return removed, nil
}

func (r *Favorites) ExistsByTMDBID(ctx context.Context, userID string, tmdbID int) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return false, s.Fail
	}
	m := s.movieByTMDBLocked(tmdbID)
	if m == nil {
		return false, nil
	}
	return s.favoriteLocked(userID, m.ID) != nil, nil
}

func (s *Store) favoriteLocked(userID string, movieID int64) *model.Favorite {
	for _, f := range s.favs {
		if f.UserID == userID && f.MovieID == movieID {
			cp := *f
			return &cp
		}
	}
	return nil
}

// FavoriteCount reports how many favorites the user has.
func (s *Store) FavoriteCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.favs {
		if f.UserID == userID {
			n++
		}
	}
	return n
}

// ============================================================================
// Watch History
// ============================================================================

type WatchHistory struct{ s *Store }

func (r *WatchHistory) Upsert(ctx context.Context, userID string, movieID int64, progress float64, watchedAt time.Time) (*model.WatchHistory, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	for _, h := range s.history {
		if h.UserID == userID && h.MovieID == movieID {
			h.Progress = progress
			h.WatchedAt = watchedAt
			cp := *h
			return &cp, nil
		}
	}

	h := &model.WatchHistory{ID: s.id(), UserID: userID, MovieID: movieID, Progress: progress, WatchedAt: watchedAt}
	s.history = append(s.history, h)
	cp := *h
	return &cp, nil
}

func (r *WatchHistory) ListByUser(ctx context.Context, userID string) ([]*model.WatchHistory, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}

	var out []*model.WatchHistory
	for _, h := range s.history {
		if h.UserID == userID {
			cp := *h
			cp.Movie = s.movieLocked(h.MovieID)
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WatchedAt.Equal(out[j].WatchedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].WatchedAt.After(out[j].WatchedAt)
	})
	return out, nil
}
