// Package jwt provides JSON Web Token utilities for the Moveyes API.
//
// Tokens are HS256-signed with a shared secret and carry the user id
// (as both the subject and the userId claim) and the user's email.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    Secret:     []byte(os.Getenv("JWT_SECRET")),
//	    Expiration: 24 * time.Hour,
//	    Issuer:     "moveyes",
//	})
//
//	token, err := service.Sign(jwt.Claims{UserID: user.ID, Email: user.Email})
//
// # Token Validation
//
//	claims, err := service.Validate(tokenString)
//	switch {
//	case errors.Is(err, jwt.ErrTokenExpired):
//	    // ask the client to log in again
//	case err != nil:
//	    // malformed, tampered, wrong issuer or wrong algorithm
//	}
//
// Validate never returns any error other than ErrTokenExpired or
// ErrInvalidToken, so callers can branch on those two alone.
package jwt
