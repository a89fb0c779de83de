//go:build integration

package testdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/forgo/moveyes/internal/database"
)

// TestDB is a migrated PostgreSQL database running in a container.
type TestDB struct {
	DB  *database.Postgres
	URL string
	t   *testing.T
}

var (
	startOnce sync.Once
	sharedURL string
	startErr  error
)

// start launches one postgres container per test binary. Ryuk removes it
// when the process exits.
func start() (string, error) {
	startOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var container *tcpostgres.PostgresContainer
		container, startErr = tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("moveyes"),
			tcpostgres.WithUsername("moveyes"),
			tcpostgres.WithPassword("moveyes"),
			tcpostgres.BasicWaitStrategies(),
		)
		if startErr != nil {
			if container != nil {
				_ = testcontainers.TerminateContainer(container)
			}
			return
		}
		sharedURL, startErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	return sharedURL, startErr
}

// New connects to the shared container, applies migrations and empties
// every table. Tests using it must not run in parallel with each other.
func New(t *testing.T) *TestDB {
	t.Helper()

	url, err := start()
	if err != nil {
		t.Fatalf("testdb: failed to start postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgres(database.Config{URL: url, MaxConns: 4, AutoMigrate: true})
	if err := db.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	tdb := &TestDB{DB: db, URL: url, t: t}
	tdb.Reset()
	t.Cleanup(db.Close)
	return tdb
}

// Reset truncates all tables.
func (tdb *TestDB) Reset() {
	tdb.t.Helper()
	_, err := tdb.DB.Exec(tdb.Context(), `TRUNCATE users, profiles, movies, favorites, watch_history RESTART IDENTITY CASCADE`)
	if err != nil {
		tdb.t.Fatalf("testdb: failed to truncate: %v", err)
	}
}

// Context returns a context that is cancelled when the test ends.
func (tdb *TestDB) Context() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	tdb.t.Cleanup(cancel)
	return ctx
}
