package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/forgo/moveyes/internal/middleware"
	"github.com/forgo/moveyes/internal/model"
)

// RouterConfig holds everything the router mounts.
type RouterConfig struct {
	Auth         *AuthHandler
	Movies       *MovieHandler
	Profile      *ProfileHandler
	WatchHistory *WatchHistoryHandler
	Health       *HealthHandler

	// Tokens validates bearer tokens on protected routes.
	Tokens middleware.AuthService
	Errors *ErrorTranslator

	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

// NewRouter builds the API's route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery(cfg.Errors),
		middleware.Metrics,
		middleware.CORS(cfg.AllowedOrigins),
	)
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.Errors))
	}
	r.Use(middleware.Compress)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		cfg.Errors.WriteError(w, r, model.NewAppError(http.StatusNotFound, "Can't find "+r.URL.Path+" on this server!"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		cfg.Errors.WriteError(w, r, model.NewMethodNotAllowedError(r.Method, r.URL.Path))
	})

	requireAuth := middleware.Auth(cfg.Tokens, cfg.Errors)
	optionalAuth := middleware.OptionalAuth(cfg.Tokens)

	r.Get("/", cfg.Health.Root)
	r.Get("/health", cfg.Health.Health)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.With(requireAuth).Get("/me", cfg.Auth.Me)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth)
				r.Get("/getPopularMovies", cfg.Movies.Popular)
				r.Get("/searchMovies", cfg.Movies.Search)
				r.Get("/getMovieDetails/{id}", cfg.Movies.Details)
			})
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/addToFavorites", cfg.Movies.AddFavorite)
				r.Get("/favorites", cfg.Movies.ListFavorites)
				r.Delete("/favorites/{movieId}", cfg.Movies.RemoveFavorite)
				r.Get("/checkFavorite/{tmdbId}", cfg.Movies.CheckFavorite)
			})
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", cfg.Profile.Get)
			r.Put("/", cfg.Profile.Update)
		})

		r.Route("/watch-history", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", cfg.WatchHistory.List)
			r.Post("/update", cfg.WatchHistory.Update)
		})
	})

	return r
}
