package model

import (
	"math"
	"time"
)

// Movie is the locally cached slice of TMDB metadata that favorites and
// watch history point at.
type Movie struct {
	ID           int64      `json:"id"`
	TMDBID       int        `json:"tmdbId"`
	Title        string     `json:"title"`
	Overview     string     `json:"overview"`
	PosterPath   string     `json:"posterPath"`
	BackdropPath string     `json:"backdropPath"`
	ReleaseDate  *time.Time `json:"releaseDate,omitempty"`
	VoteAverage  float64    `json:"voteAverage"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Favorite links a user to a movie.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   int64     `json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
	Movie     *Movie    `json:"movie,omitempty"`
}

// WatchHistory is one user's progress through one movie. There is at most
// one entry per (user, movie); later updates overwrite earlier ones.
type WatchHistory struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Progress  float64   `json:"progress"`
	WatchedAt time.Time `json:"watchedAt"`
	Movie     *Movie    `json:"movie,omitempty"`
}

// AddFavoriteRequest represents a favorite request
type AddFavoriteRequest struct {
	TMDBID *int `json:"tmdbId"`
}

// Validate returns every problem with the request.
func (r *AddFavoriteRequest) Validate() []FieldError {
	if r.TMDBID == nil {
		return []FieldError{{Field: "tmdbId", Message: "tmdbId is required"}}
	}
	if *r.TMDBID <= 0 {
		return []FieldError{{Field: "tmdbId", Message: "tmdbId must be a positive integer"}}
	}
	return nil
}

// Watch progress bounds, in percent.
const (
	MinProgress = 0
	MaxProgress = 100
)

// UpdateWatchProgressRequest represents a watch progress update
type UpdateWatchProgressRequest struct {
	TMDBID   *int     `json:"tmdbId"`
	Progress *float64 `json:"progress"`
}

// Validate returns every problem with the request.
func (r *UpdateWatchProgressRequest) Validate() []FieldError {
	var errs []FieldError
	if r.TMDBID == nil {
		errs = append(errs, FieldError{Field: "tmdbId", Message: "tmdbId is required"})
	} else if *r.TMDBID <= 0 {
		errs = append(errs, FieldError{Field: "tmdbId", Message: "tmdbId must be a positive integer"})
	}
	switch {
	case r.Progress == nil:
		errs = append(errs, FieldError{Field: "progress", Message: "Progress must be provided as a number"})
	case math.IsNaN(*r.Progress) || *r.Progress < MinProgress || *r.Progress > MaxProgress:
		errs = append(errs, FieldError{Field: "progress", Message: "Progress must be between 0 and 100"})
	}
	return errs
}

// FavoriteResult reports whether AddFavorite created a new record.
type FavoriteResult struct {
	Favorite *Favorite
	Created  bool
}
