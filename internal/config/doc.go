// Package config manages application configuration for the Moveyes API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    // refuse to start
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (host, port, timeouts, CORS)
//   - DatabaseConfig: PostgreSQL connection and monitor settings
//   - JWTConfig: token signing secret, lifetime and issuer
//   - TMDBConfig: movie metadata API settings
//   - RedisConfig: metadata cache settings
//   - RateLimitConfig: per-client request limits
//
// # Environment Variables
//
//	PORT / SERVER_PORT  - HTTP server port (default: 8080)
//	SERVER_ENV          - development, production or test
//	DATABASE_URL        - PostgreSQL connection string (required)
//	JWT_SECRET          - HS256 signing secret (required, no fallback)
//	JWT_EXPIRATION      - token lifetime (default: 24h)
//	TMDB_API_KEY        - TMDB v3 API key
//	REDIS_URL           - enables the metadata cache when set
//	LOG_LEVEL           - debug, info, warn or error
package config
