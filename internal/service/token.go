package service

import (
	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/pkg/jwt"
)

// TokenService issues and checks access tokens.
type TokenService struct {
	jwtService *jwt.Service
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	JWTService *jwt.Service
}

// NewTokenService creates a new token service
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	return &TokenService{
		jwtService: cfg.JWTService,
	}
}

// IssueAccessToken signs a token carrying the user's id and email.
func (s *TokenService) IssueAccessToken(user *model.User) (*model.TokenPair, error) {
	token, err := s.jwtService.Sign(jwt.Claims{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.GetExpiration().Seconds()),
	}, nil
}

// ValidateAccessToken returns the claims of a valid token, or
// jwt.ErrTokenExpired / jwt.ErrInvalidToken.
func (s *TokenService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}
