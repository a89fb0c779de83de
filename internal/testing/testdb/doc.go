// Package testdb provides a real PostgreSQL database for integration tests.
//
// The database runs in a container started with testcontainers-go, once
// per test binary, and the embedded migrations are applied on connect.
// The package only builds with the integration tag:
//
//	go test -tags integration ./internal/repository/...
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t) // migrated and empty
//	    repo := repository.NewUserRepository(tdb.DB)
//	}
package testdb
