// Package database provides the PostgreSQL persistence gateway for Moveyes.
//
// A single Postgres value owns the connection pool for the life of the
// process. It is constructed in main and handed to repositories explicitly;
// there is no package-level handle.
//
// # Error Handling
//
// Every error leaving this package is a *Error tagged with a Kind:
//   - KindNotFound: no row matched
//   - KindDuplicate: unique constraint violation
//   - KindInvalid: malformed identifier or value rejected by the server
//   - KindTransient: connection-level failure, worth a reconnect and one retry
//   - KindQuery: anything else
//
// The package sentinels match the corresponding kinds with errors.Is:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
//
// # Connection Management
//
// Connect at startup is best-effort; a failed connect leaves the gateway
// without a pool and every call reports a transient error until a
// reconnect succeeds:
//
//	db := database.NewPostgres(database.Config{URL: cfg.Database.URL, AutoMigrate: true})
//	if err := db.Connect(ctx); err != nil {
//	    slog.Error("database unavailable at startup", slog.String("error", err.Error()))
//	}
//	defer db.Close()
//
// # Retrying Transient Failures
//
// Repositories run every operation through WithRetry or RetryExec. A
// KindTransient failure triggers one Reconnect and one more attempt:
//
//	user, err := database.WithRetry(ctx, db, func(ctx context.Context) (*model.User, error) {
//	    return scanUser(db.QueryRow(ctx, query, id))
//	})
//
// Transactional operations retry the whole transaction, never a single
// statement inside it.
//
// # Transactions
//
//	err := db.WithTx(ctx, func(q database.Querier) error {
//	    if _, err := q.Exec(ctx, updateUser, name, id); err != nil {
//	        return err
//	    }
//	    _, err := q.Exec(ctx, updateProfile, bio, id)
//	    return err
//	})
package database
