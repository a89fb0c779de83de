package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/pkg/jwt"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService()

	pair, err := svc.IssueAccessToken(&model.User{ID: "user-1", Email: "u@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int(time.Hour.Seconds()), pair.ExpiresIn)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestTokenService_ValidateForeignToken(t *testing.T) {
	t.Parallel()
	other := NewTokenService(TokenServiceConfig{
		JWTService: jwt.NewTestService("a-completely-different-secret-value", "moveyes-test", time.Hour),
	})
	pair, err := other.IssueAccessToken(&model.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = newTestTokenService().ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestTokenService_ValidateExpiredToken(t *testing.T) {
	t.Parallel()
	past, err := jwt.NewService(jwt.Config{
		Secret:     []byte(testSecret),
		Issuer:     "moveyes-test",
		Expiration: time.Minute,
		Now:        func() time.Time { return time.Now().Add(-time.Hour) },
	})
	require.NoError(t, err)
	expired := NewTokenService(TokenServiceConfig{JWTService: past})
	pair, err := expired.IssueAccessToken(&model.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = newTestTokenService().ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_IssueWithoutUserID(t *testing.T) {
	t.Parallel()
	_, err := newTestTokenService().IssueAccessToken(&model.User{})
	assert.Error(t, err)
}
