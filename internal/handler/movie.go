package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/forgo/moveyes/internal/middleware"
	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/service"
)

// MovieHandler serves catalog lookups and the caller's favorites.
type MovieHandler struct {
	movieService *service.MovieService
	errs         middleware.ErrorWriter
}

// MovieHandlerConfig holds dependencies for the movie handler
type MovieHandlerConfig struct {
	MovieService *service.MovieService
	Errors       middleware.ErrorWriter
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(cfg MovieHandlerConfig) *MovieHandler {
	return &MovieHandler{
		movieService: cfg.MovieService,
		errs:         cfg.Errors,
	}
}

// FavoriteResponse is returned when a movie is already a favorite.
type FavoriteResponse struct {
	Message  string          `json:"message"`
	Favorite *model.Favorite `json:"favorite"`
}

// IsFavoriteResponse answers GET /api/movies/checkFavorite/{tmdbId}.
type IsFavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// Popular handles GET /api/movies/getPopularMovies
func (h *MovieHandler) Popular(w http.ResponseWriter, r *http.Request) {
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		slog.Debug("popular movies requested", slog.String("user_id", userID))
	}

	body, err := h.movieService.Popular(r.Context(), queryPage(r))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteRawJSON(w, http.StatusOK, body)
}

// Search handles GET /api/movies/searchMovies?q=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	body, err := h.movieService.Search(r.Context(), r.URL.Query().Get("q"), queryPage(r))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteRawJSON(w, http.StatusOK, body)
}

// Details handles GET /api/movies/getMovieDetails/{id}
func (h *MovieHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id", "movie id")
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	details, err := h.movieService.Details(r.Context(), id)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, details)
}

// AddFavorite handles POST /api/movies/addToFavorites
func (h *MovieHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req model.AddFavoriteRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	if err := model.NewValidationError(req.Validate()); err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	result, err := h.movieService.AddFavorite(r.Context(), middleware.GetUserID(r.Context()), *req.TMDBID)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	if !result.Created {
		WriteJSON(w, http.StatusOK, FavoriteResponse{
			Message:  "Movie already in favorites",
			Favorite: result.Favorite,
		})
		return
	}
	WriteJSON(w, http.StatusCreated, result.Favorite)
}

// ListFavorites handles GET /api/movies/favorites
func (h *MovieHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.movieService.ListFavorites(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, favs)
}

// RemoveFavorite handles DELETE /api/movies/favorites/{movieId}
func (h *MovieHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	movieID, err := pathInt(r, "movieId", "movieId")
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	if err := h.movieService.RemoveFavorite(r.Context(), middleware.GetUserID(r.Context()), int64(movieID)); err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Movie removed from favorites"})
}

// CheckFavorite handles GET /api/movies/checkFavorite/{tmdbId}
func (h *MovieHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	tmdbID, err := pathInt(r, "tmdbId", "tmdbId")
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}

	ok, err := h.movieService.IsFavorite(r.Context(), middleware.GetUserID(r.Context()), tmdbID)
	if err != nil {
		h.errs.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, IsFavoriteResponse{IsFavorite: ok})
}

// pathInt parses a positive integer URL parameter.
func pathInt(r *http.Request, param, field string) (int, error) {
	raw := chi.URLParam(r, param)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &model.InvalidIDError{Field: field, Value: raw}
	}
	return n, nil
}
