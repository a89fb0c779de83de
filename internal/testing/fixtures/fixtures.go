package fixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/moveyes/internal/model"
)

// DefaultPassword is the plaintext password of every fixture user.
const DefaultPassword = "testpass123"

// UserCreator is satisfied by every user repository.
type UserCreator interface {
	Create(ctx context.Context, user *model.User) error
}

// MovieUpserter is satisfied by every movie repository.
type MovieUpserter interface {
	Upsert(ctx context.Context, movie *model.Movie) (*model.Movie, error)
}

// Stores is the set of repositories fixtures write through.
type Stores struct {
	Users  UserCreator
	Movies MovieUpserter
}

// Factory creates test entities
type Factory struct {
	stores Stores
	seq    int
}

// New creates a new fixture factory
func New(stores Stores) *Factory {
	return &Factory{stores: stores}
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Email    string
	Name     string
	Password string
}

// WithEmail sets the user's email.
func WithEmail(email string) func(*UserOpts) {
	return func(o *UserOpts) { o.Email = email }
}

// CreateUser stores a user (and its empty profile) with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := uuid.NewString()
	o := &UserOpts{
		Email:    fmt.Sprintf("user_%s@test.local", id[:8]),
		Name:     "Test User",
		Password: DefaultPassword,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: hash password: %v", err)
	}

	user := &model.User{ID: id, Email: o.Email, Name: o.Name, Hash: string(hash)}
	if err := f.stores.Users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: create user: %v", err)
	}
	return user
}

// ============================================================================
// Movie Fixtures
// ============================================================================

// CreateMovie caches a movie with the given TMDB id.
func (f *Factory) CreateMovie(t *testing.T, tmdbID int) *model.Movie {
	t.Helper()

	f.seq++
	release := time.Date(2000+f.seq%20, time.March, 1, 0, 0, 0, 0, time.UTC)
	movie, err := f.stores.Movies.Upsert(ctx(t), &model.Movie{
		TMDBID:      tmdbID,
		Title:       fmt.Sprintf("Fixture Movie %d", tmdbID),
		Overview:    "A movie created for tests.",
		PosterPath:  fmt.Sprintf("/poster_%d.jpg", tmdbID),
		ReleaseDate: &release,
		VoteAverage: 7.5,
	})
	if err != nil {
		t.Fatalf("fixtures: create movie: %v", err)
	}
	return movie
}
