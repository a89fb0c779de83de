package database

import (
	"context"
	"log/slog"

	"github.com/forgo/moveyes/internal/metrics"
)

// Reconnector rebuilds the connection to the store.
type Reconnector interface {
	Reconnect(ctx context.Context) error
}

// WithRetry runs op once. When it fails with a transient error the gateway
// is reconnected and op runs exactly one more time; that second result is
// returned as is. Non-transient failures are returned immediately.
//
// If the reconnect itself fails, the reconnect error is returned and op is
// not attempted again.
func WithRetry[T any](ctx context.Context, db Reconnector, op func(ctx context.Context) (T, error)) (T, error) {
	result, err := op(ctx)
	if err == nil || !IsTransient(err) {
		return result, err
	}

	slog.Warn("transient database failure, reconnecting",
		slog.String("error", err.Error()),
	)

	if rerr := db.Reconnect(ctx); rerr != nil {
		metrics.DBRetriesTotal.WithLabelValues("reconnect_failed").Inc()
		var zero T
		return zero, rerr
	}

	result, err = op(ctx)
	if err != nil {
		metrics.DBRetriesTotal.WithLabelValues("failed").Inc()
		slog.Error("database operation failed after reconnect",
			slog.String("error", err.Error()),
		)
		return result, err
	}

	metrics.DBRetriesTotal.WithLabelValues("recovered").Inc()
	return result, nil
}

// RetryExec is WithRetry for operations that only return an error.
func RetryExec(ctx context.Context, db Reconnector, op func(ctx context.Context) error) error {
	_, err := WithRetry(ctx, db, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
