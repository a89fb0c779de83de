package service

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/moveyes/internal/testing/memstore"
	"github.com/forgo/moveyes/internal/tmdb"
	"github.com/forgo/moveyes/pkg/jwt"
)

const testSecret = "service-test-secret-with-32-bytes!!"

func newTestTokenService() *TokenService {
	return NewTokenService(TokenServiceConfig{
		JWTService: jwt.NewTestService(testSecret, "moveyes-test", time.Hour),
	})
}

func newTestAuthService(store *memstore.Store) *AuthService {
	return NewAuthService(AuthServiceConfig{
		UserRepo:     store.Users(),
		TokenService: newTestTokenService(),
		BcryptCost:   bcrypt.MinCost,
	})
}

func fightClub() *tmdb.MovieDetails {
	return &tmdb.MovieDetails{
		ID:          550,
		Title:       "Fight Club",
		Overview:    "An insomniac office worker...",
		PosterPath:  "/pB8BM7pdSp6B6Ih7QZ4DrQ3PmJK.jpg",
		ReleaseDate: "1999-10-15",
		VoteAverage: 8.4,
	}
}

func theMatrix() *tmdb.MovieDetails {
	return &tmdb.MovieDetails{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-30", VoteAverage: 8.2}
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

// registerUser creates an account through the service and returns its id.
func registerUser(t *testing.T, svc *AuthService, email string) string {
	t.Helper()
	user, err := svc.Register(t.Context(), registerReq(email))
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return user.ID
}
