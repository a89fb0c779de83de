package tmdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/forgo/moveyes/internal/metrics"
)

// BreakerConfig tunes the circuit breaker. Zero values take the defaults.
type BreakerConfig struct {
	Name string
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval after which failure counts reset while closed.
	Interval time.Duration
	// Timeout spent open before probing again.
	Timeout time.Duration
	// MinRequests before the failure ratio is considered.
	MinRequests uint32
	// FailureRatio at or above which the circuit opens.
	FailureRatio float64
}

// CircuitBreakerClient wraps a Catalog with the circuit breaker pattern.
// While open, calls fail fast with ErrUnavailable.
type CircuitBreakerClient struct {
	next Catalog
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewCircuitBreakerClient creates a new catalog with circuit breaker
func NewCircuitBreakerClient(next Catalog, cfg BreakerConfig) *CircuitBreakerClient {
	if cfg.Name == "" {
		cfg.Name = "tmdb-api"
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 3
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 10
	}
	if cfg.FailureRatio == 0 {
		cfg.FailureRatio = 0.6
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				slog.Warn("opening circuit breaker",
					slog.String("name", cfg.Name),
					slog.Any("failures", counts.TotalFailures),
					slog.Float64("failure_rate", ratio),
				)
				return true
			}
			return false
		},
		// A missing movie or a cancelled caller says nothing about TMDB health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("circuit breaker state transition",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &CircuitBreakerClient{next: next, cb: cb, name: cfg.Name}
}

// State returns the current breaker state.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

func (c *CircuitBreakerClient) Popular(ctx context.Context, page int) (json.RawMessage, error) {
	return castResult[json.RawMessage](c.execute(func() (any, error) {
		return c.next.Popular(ctx, page)
	}))
}

func (c *CircuitBreakerClient) Search(ctx context.Context, query string, page int) (json.RawMessage, error) {
	return castResult[json.RawMessage](c.execute(func() (any, error) {
		return c.next.Search(ctx, query, page)
	}))
}

func (c *CircuitBreakerClient) Details(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	return castResult[*MovieDetails](c.execute(func() (any, error) {
		return c.next.Details(ctx, tmdbID)
	}))
}

// execute runs fn through the breaker and records the outcome.
func (c *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	return result, nil
}

func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

var _ Catalog = (*CircuitBreakerClient)(nil)
