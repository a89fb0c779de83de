// Package fixtures provides test data factories.
//
// A Factory writes through the same repository interfaces the services
// use, so it works against both the in-memory store and PostgreSQL:
//
//	store := memstore.New()
//	f := fixtures.New(fixtures.Stores{Users: store.Users(), Movies: store.Movies()})
//	user := f.CreateUser(t, fixtures.WithEmail("ada@example.com"))
//	movie := f.CreateMovie(t, 550)
package fixtures
