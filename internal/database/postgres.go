package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/forgo/moveyes/internal/metrics"
)

// Postgres implements the Database interface for PostgreSQL.
//
// The pool sits behind an atomic pointer so Reconnect can swap in a fresh
// pool while requests keep running against the old one until they release
// their connections.
type Postgres struct {
	config   Config
	pool     atomic.Pointer[pgxpool.Pool]
	group    singleflight.Group
	migrated atomic.Bool
}

// NewPostgres creates a new Postgres instance. Call Connect before use.
func NewPostgres(cfg Config) *Postgres {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	return &Postgres{config: cfg}
}

// Connect establishes the connection pool and verifies it with a ping.
func (p *Postgres) Connect(ctx context.Context) error {
	pool, err := p.open(ctx)
	if err != nil {
		return err
	}
	if old := p.pool.Swap(pool); old != nil {
		old.Close()
	}
	return nil
}

// Reconnect builds a new pool, swaps it in and closes the old one in the
// background. Concurrent callers share a single rebuild.
func (p *Postgres) Reconnect(ctx context.Context) error {
	_, err, shared := p.group.Do("reconnect", func() (any, error) {
		pool, err := p.open(ctx)
		if err != nil {
			metrics.DBReconnectsTotal.WithLabelValues("failure").Inc()
			slog.Error("database reconnect failed", slog.String("error", err.Error()))
			return nil, err
		}

		if old := p.pool.Swap(pool); old != nil {
			// Close blocks until borrowed connections come back.
			go old.Close()
		}
		metrics.DBReconnectsTotal.WithLabelValues("success").Inc()
		slog.Info("database connection pool rebuilt")
		return nil, nil
	})
	if shared {
		slog.Debug("joined in-flight database reconnect")
	}
	return err
}

// Close closes the pool, waiting for borrowed connections to be released.
func (p *Postgres) Close() {
	if pool := p.pool.Swap(nil); pool != nil {
		pool.Close()
	}
}

// Ping checks the database connection
func (p *Postgres) Ping(ctx context.Context) error {
	pool, err := p.current()
	if err != nil {
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		return Classify("ping", err)
	}
	return nil
}

// Exec runs a statement that returns no rows.
func (p *Postgres) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool, err := p.current()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return classified{pool}.Exec(ctx, sql, args...)
}

// Query runs a statement that returns rows.
func (p *Postgres) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := p.current()
	if err != nil {
		return nil, err
	}
	return classified{pool}.Query(ctx, sql, args...)
}

// QueryRow runs a statement expected to return at most one row. Errors,
// including a missing pool, surface from Scan.
func (p *Postgres) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := p.current()
	if err != nil {
		return errRow{err: err}
	}
	return classified{pool}.QueryRow(ctx, sql, args...)
}

// WithTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back otherwise, so either every statement in fn takes effect or none.
func (p *Postgres) WithTx(ctx context.Context, fn func(q Querier) error) error {
	pool, err := p.current()
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return Classify("begin transaction", err)
	}
	defer func() {
		// No-op once committed.
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()

	if err := fn(classified{tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return Classify("commit transaction", err)
	}
	return nil
}

func (p *Postgres) current() (*pgxpool.Pool, error) {
	pool := p.pool.Load()
	if pool == nil {
		return nil, transient("acquire", ErrConnection)
	}
	return pool, nil
}

func (p *Postgres) open(ctx context.Context) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(p.config.URL)
	if err != nil {
		return nil, &Error{Kind: KindQuery, Op: "parse config", Err: fmt.Errorf("%w: %v", ErrConnection, err)}
	}
	if p.config.MaxConns > 0 {
		poolCfg.MaxConns = p.config.MaxConns
	}
	if p.config.MinConns > 0 {
		poolCfg.MinConns = p.config.MinConns
	}
	if p.config.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = p.config.MaxConnIdleTime
	}
	if p.config.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = p.config.HealthCheckPeriod
	}
	poolCfg.ConnConfig.ConnectTimeout = p.config.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, transient("connect", fmt.Errorf("%w: %v", ErrConnection, err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, p.config.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, transient("connect", fmt.Errorf("%w: %v", ErrConnection, err))
	}

	if p.config.AutoMigrate && !p.migrated.Load() {
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		p.migrated.Store(true)
	}

	return pool, nil
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// classified tags every error from the wrapped querier with its Kind.
type classified struct {
	q pgxQuerier
}

func (c classified) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := c.q.Exec(ctx, sql, args...)
	if err != nil {
		return tag, Classify("exec", err)
	}
	return tag, nil
}

func (c classified) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := c.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, Classify("query", err)
	}
	return rows, nil
}

func (c classified) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return classifiedRow{row: c.q.QueryRow(ctx, sql, args...)}
}

type classifiedRow struct {
	row pgx.Row
}

func (r classifiedRow) Scan(dest ...any) error {
	return Classify("scan", r.row.Scan(dest...))
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}

var _ Database = (*Postgres)(nil)
