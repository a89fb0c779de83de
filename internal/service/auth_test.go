package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/testing/memstore"
)

func registerReq(email string) model.RegisterRequest {
	return model.RegisterRequest{Email: email, Password: "secret123", Name: "Ada Lovelace"}
}

// ============================================================================
// Register Tests
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := newTestAuthService(store)

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "  Ada@Example.COM ",
		Password: "secret123",
		Name:     " Ada ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEqual(t, "secret123", user.Hash, "password must be hashed")
	assert.False(t, user.CreatedAt.IsZero())

	profile, err := store.Profiles().GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile, "registration creates an empty profile")
	assert.Empty(t, profile.Bio)
}

func TestAuthService_Register_ValidationAggregatesErrors(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(memstore.New())

	_, err := svc.Register(context.Background(), model.RegisterRequest{Email: "not-an-email", Password: "123"})

	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Errors, 3)
	assert.True(t, strings.HasPrefix(vErr.Error(), "Invalid input data. "))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(memstore.New())

	_, err := svc.Register(context.Background(), registerReq("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("DUP@example.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

// raceUserRepo hides existing users from the pre-check so Create is the
// one that reports the conflict.
type raceUserRepo struct {
	*memstore.Users
}

func (r raceUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func TestAuthService_Register_ConcurrentDuplicateMapsToConflict(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := NewAuthService(AuthServiceConfig{
		UserRepo:     raceUserRepo{store.Users()},
		TokenService: newTestTokenService(),
		BcryptCost:   4,
	})

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), registerReq("race@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuthService_Register_StoreFailurePropagates(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	store.Fail = &database.Error{Kind: database.KindTransient, Err: errors.New("connection refused")}
	svc := newTestAuthService(store)

	_, err := svc.Register(context.Background(), registerReq("a@example.com"))
	assert.True(t, database.IsTransient(err))
}

// ============================================================================
// Login Tests
// ============================================================================

func TestAuthService_Login_RoundTrip(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	svc := newTestAuthService(store)

	registered, err := svc.Register(context.Background(), registerReq("round@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: "Round@Example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, registered.ID, resp.User.ID)

	claims, err := newTestTokenService().ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "round@example.com", claims.Email)
}

func TestAuthService_Login_WrongCredentials(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(memstore.New())
	_, err := svc.Register(context.Background(), registerReq("known@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong password", model.LoginRequest{Email: "known@example.com", Password: "nope-nope"}},
		{"unknown email", model.LoginRequest{Email: "ghost@example.com", Password: "secret123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, resp, "no token on failure")
		})
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(memstore.New())

	_, err := svc.Login(context.Background(), model.LoginRequest{})

	var vErr *model.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

// ============================================================================
// GetUserByID Tests
// ============================================================================

func TestAuthService_GetUserByID(t *testing.T) {
	t.Parallel()
	svc := newTestAuthService(memstore.New())
	id := registerUser(t, svc, "me@example.com")

	user, err := svc.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = svc.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
