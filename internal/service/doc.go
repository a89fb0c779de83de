// Package service implements the business logic layer for the Moveyes API.
//
// Services sit between the HTTP handlers and the repositories. They
// validate input, orchestrate repository and catalog calls, and translate
// storage conditions into the sentinel errors declared in errors.go.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with its dependencies
//   - Methods take a context.Context first and return explicit errors
//   - Repository interfaces are declared next to the service that consumes them
//
// # Error Handling
//
// Services return either a *model.ValidationError (bad input), a sentinel
// such as ErrMovieNotFound, or the underlying classified *database.Error or
// tmdb error unchanged. The handler layer's ErrorTranslator maps each of
// these to an HTTP status; services never pick status codes themselves.
//
// # Movie Metadata
//
// Favorites and watch history point at a local movies row. The first time
// a TMDB id is referenced its details are fetched from the catalog and
// upserted; later references are served from the database.
package service
