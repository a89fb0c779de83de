// Package repository implements the PostgreSQL data access layer.
//
// Each repository wraps a database.Database and satisfies the matching
// interface declared by its service. Every method runs its statements
// through database.WithRetry, so a dropped connection is rebuilt and the
// operation attempted once more; methods that use WithTx retry the whole
// transaction.
//
// Lookups that find nothing return (nil, nil). Errors come back classified
// as *database.Error and can be tested with errors.Is against the
// database sentinels.
package repository
