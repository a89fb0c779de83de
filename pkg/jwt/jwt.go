package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidKey   = errors.New("invalid key")
)

// DefaultExpiration is used when Config.Expiration is zero.
const DefaultExpiration = 24 * time.Hour

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	gojwt.RegisteredClaims
}

// Service handles JWT operations
type Service struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// Config holds JWT service configuration
type Config struct {
	Secret     []byte
	Issuer     string
	Expiration time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// NewService creates a new JWT service. An empty secret is rejected:
// there is no fallback key.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrInvalidKey
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = DefaultExpiration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Service{
		secret:     secret,
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
		now:        cfg.Now,
	}, nil
}

// Sign creates a signed JWT token. Issuer, subject and the time claims are
// filled in by the service; an ExpiresAt already set on claims is kept.
func (s *Service) Sign(claims Claims) (string, error) {
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	now := s.now().Truncate(time.Second)
	claims.Issuer = s.issuer
	claims.Subject = claims.UserID
	claims.IssuedAt = gojwt.NewNumericDate(now)
	claims.NotBefore = gojwt.NewNumericDate(now)
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.expiration))
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate validates a JWT token and returns the claims
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetExpiration returns the token expiration duration
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}

// NewTestService creates a JWT service with a fixed secret for testing.
// This should only be used in tests, not in production code
func NewTestService(secret, issuer string, expiration time.Duration) *Service {
	svc, err := NewService(Config{Secret: []byte(secret), Issuer: issuer, Expiration: expiration})
	if err != nil {
		panic(err)
	}
	return svc
}
