package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Profile Errors =====
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ===== Movie Errors =====
var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
)
