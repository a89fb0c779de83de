// Package model defines domain entities and data structures for the Moveyes API.
//
// The model package contains the struct definitions for domain objects,
// request/response types, and error definitions. Models are used across all
// layers of the application.
//
// # Domain Entities
//
//   - User: account with email, name and bcrypt password hash
//   - Profile: one per user, created empty at registration
//   - Movie: locally cached TMDB metadata, unique by TMDB id
//   - Favorite: a user's favorite movie, unique per (user, movie)
//   - WatchHistory: a user's progress through a movie, unique per (user, movie)
//
// # Request Validation
//
// Request types expose Validate() []FieldError, which reports every problem
// at once. NewValidationError turns a non-empty slice into an error that
// renders as "Invalid input data. <msg1>. <msg2>".
//
// # Errors
//
// AppError carries an HTTP status and a client-safe message. InvalidIDError
// reports a malformed identifier. ErrorResponse is the envelope every failed
// request is answered with.
package model
