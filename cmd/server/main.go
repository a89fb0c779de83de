package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/moveyes/internal/cache"
	"github.com/forgo/moveyes/internal/config"
	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/handler"
	"github.com/forgo/moveyes/internal/jobs"
	"github.com/forgo/moveyes/internal/metrics"
	"github.com/forgo/moveyes/internal/middleware"
	"github.com/forgo/moveyes/internal/repository"
	"github.com/forgo/moveyes/internal/service"
	"github.com/forgo/moveyes/internal/tmdb"
	"github.com/forgo/moveyes/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDevelopment() {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize database connection. A database that is down at startup is
	// not fatal: requests retry through Reconnect and the monitor keeps
	// probing until it comes back.
	db := database.NewPostgres(database.Config{
		URL:         cfg.Database.URL,
		MaxConns:    int32(cfg.Database.MaxConns),
		AutoMigrate: true,
	})
	if err := db.Connect(ctx); err != nil {
		slog.Warn("database unavailable at startup", slog.String("error", err.Error()))
	} else {
		slog.Info("connected to database")
	}
	defer db.Close()

	// Metadata cache (optional)
	var metaCache cache.Cache
	redisCache, err := cache.NewRedis(ctx, cache.RedisConfig{
		URL:       cfg.Redis.URL,
		KeyPrefix: "moveyes:",
	})
	switch {
	case err != nil:
		slog.Warn("redis unavailable, metadata caching disabled", slog.String("error", err.Error()))
	case redisCache != nil:
		metaCache = redisCache
		defer func() { _ = redisCache.Close() }()
		slog.Info("metadata cache enabled", slog.Duration("ttl", cfg.Redis.CacheTTL))
	}

	// Movie catalog: HTTP client, circuit breaker, then cache
	catalog := tmdb.NewCachedCatalog(
		tmdb.NewCircuitBreakerClient(
			tmdb.NewClient(tmdb.Config{
				BaseURL: cfg.TMDB.BaseURL,
				APIKey:  cfg.TMDB.APIKey,
				Timeout: cfg.TMDB.Timeout,
			}),
			tmdb.BreakerConfig{},
		),
		metaCache,
		cfg.Redis.CacheTTL,
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	movieRepo := repository.NewMovieRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(db)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwtService,
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})
	profileService := service.NewProfileService(service.ProfileServiceConfig{
		ProfileRepo: profileRepo,
	})
	movieService := service.NewMovieService(service.MovieServiceConfig{
		Catalog:      catalog,
		MovieRepo:    movieRepo,
		FavoriteRepo: favoriteRepo,
	})
	historyService := service.NewWatchHistoryService(service.WatchHistoryServiceConfig{
		HistoryRepo: historyRepo,
		MovieRepo:   movieRepo,
		Catalog:     catalog,
	})

	// Initialize handlers
	errs := handler.NewErrorTranslator(handler.TranslatorConfig{
		Verbose: cfg.IsDevelopment(),
	})

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
		defer rateLimiter.Stop()
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:   handler.NewAuthHandler(handler.AuthHandlerConfig{AuthService: authService, Errors: errs}),
		Movies: handler.NewMovieHandler(handler.MovieHandlerConfig{MovieService: movieService, Errors: errs}),
		Profile: handler.NewProfileHandler(handler.ProfileHandlerConfig{
			ProfileService: profileService,
			Errors:         errs,
		}),
		WatchHistory: handler.NewWatchHistoryHandler(handler.WatchHistoryHandlerConfig{
			HistoryService: historyService,
			Errors:         errs,
		}),
		Health:         handler.NewHealthHandler(db),
		Tokens:         tokenService,
		Errors:         errs,
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        metrics.Handler(),
	})

	// Start background jobs
	monitor := jobs.NewDBMonitor(db, cfg.Database.MonitorInterval)
	monitor.Start()
	defer monitor.Stop()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutting down server...", slog.String("signal", sig.String()))
	case err := <-serverErr:
		slog.Error("server error", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
		_ = server.Close()
	}

	slog.Info("server exited")
}
