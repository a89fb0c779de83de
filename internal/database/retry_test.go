package database

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type mockReconnector struct {
	calls atomic.Int32
	err   error
}

func (m *mockReconnector) Reconnect(ctx context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestWithRetry_Success_RunsOnce(t *testing.T) {
	t.Parallel()
	rc := &mockReconnector{}
	var runs int

	got, err := WithRetry(context.Background(), rc, func(ctx context.Context) (string, error) {
		runs++
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
	if rc.calls.Load() != 0 {
		t.Errorf("expected no reconnect, got %d", rc.calls.Load())
	}
}

func TestWithRetry_TransientThenSuccess_ReconnectsOnce(t *testing.T) {
	t.Parallel()
	rc := &mockReconnector{}
	var runs int

	got, err := WithRetry(context.Background(), rc, func(ctx context.Context) (int, error) {
		runs++
		if runs == 1 {
			return 0, Classify("query", &pgconn.PgError{Code: "26000"})
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if runs != 2 {
		t.Errorf("expected exactly 2 runs, got %d", runs)
	}
	if rc.calls.Load() != 1 {
		t.Errorf("expected exactly 1 reconnect, got %d", rc.calls.Load())
	}
}

func TestWithRetry_TransientTwice_PropagatesSecondFailure(t *testing.T) {
	t.Parallel()
	rc := &mockReconnector{}
	second := Classify("query", io.ErrUnexpectedEOF)
	var runs int

	_, err := WithRetry(context.Background(), rc, func(ctx context.Context) (int, error) {
		runs++
		if runs == 1 {
			return 0, Classify("query", io.EOF)
		}
		return 0, second
	})

	if !errors.Is(err, second) {
		t.Errorf("expected second failure, got %v", err)
	}
	if runs != 2 {
		t.Errorf("expected no more than 2 runs, got %d", runs)
	}
	if rc.calls.Load() != 1 {
		t.Errorf("expected exactly 1 reconnect, got %d", rc.calls.Load())
	}
}

func TestWithRetry_NonTransient_NoRetry(t *testing.T) {
	t.Parallel()

	for _, cause := range []error{
		Classify("query", pgx.ErrNoRows),
		Classify("insert", &pgconn.PgError{Code: "23505"}),
		Classify("query", &pgconn.PgError{Code: "42601"}),
		errors.New("not a database error"),
	} {
		rc := &mockReconnector{}
		var runs int

		_, err := WithRetry(context.Background(), rc, func(ctx context.Context) (int, error) {
			runs++
			return 0, cause
		})

		if !errors.Is(err, cause) {
			t.Errorf("expected %v to propagate, got %v", cause, err)
		}
		if runs != 1 {
			t.Errorf("%v: expected 1 run, got %d", cause, runs)
		}
		if rc.calls.Load() != 0 {
			t.Errorf("%v: expected no reconnect, got %d", cause, rc.calls.Load())
		}
	}
}

func TestWithRetry_ReconnectFails_ReturnsReconnectError(t *testing.T) {
	t.Parallel()
	reconnectErr := transient("connect", ErrConnection)
	rc := &mockReconnector{err: reconnectErr}
	var runs int

	_, err := WithRetry(context.Background(), rc, func(ctx context.Context) (int, error) {
		runs++
		return 0, Classify("query", io.EOF)
	})

	if !errors.Is(err, ErrConnection) {
		t.Errorf("expected connection error, got %v", err)
	}
	if runs != 1 {
		t.Errorf("expected the operation not to rerun, got %d runs", runs)
	}
}

func TestRetryExec_TransientThenSuccess(t *testing.T) {
	t.Parallel()
	rc := &mockReconnector{}
	var runs int

	err := RetryExec(context.Background(), rc, func(ctx context.Context) error {
		runs++
		if runs == 1 {
			return Classify("exec", &pgconn.PgError{Code: "57P01"})
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if runs != 2 || rc.calls.Load() != 1 {
		t.Errorf("expected 2 runs and 1 reconnect, got %d and %d", runs, rc.calls.Load())
	}
}
