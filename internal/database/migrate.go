package database

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationDir = "migrations"

// goose keeps its base FS and dialect in package state.
var gooseOnce sync.Once

// gooseUp is a seam over goose.UpContext for tests.
var gooseUp = goose.UpContext

// Migrate applies pending migrations. Goose records applied versions in
// goose_db_version, so running it against an up-to-date database changes nothing.
func (p *Postgres) Migrate(ctx context.Context) error {
	pool, err := p.current()
	if err != nil {
		return err
	}
	if err := migrate(ctx, pool); err != nil {
		return err
	}
	p.migrated.Store(true)
	return nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	var setupErr error
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrationFS)
		goose.SetLogger(goose.NopLogger())
		setupErr = goose.SetDialect("postgres")
	})
	if setupErr != nil {
		return fmt.Errorf("configure migrations: %w", setupErr)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := gooseUp(ctx, db, migrationDir); err != nil {
		return Classify("migrate", err)
	}
	return nil
}
