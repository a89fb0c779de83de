package service

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/moveyes/internal/model"
	"github.com/forgo/moveyes/internal/testing/memstore"
	"github.com/forgo/moveyes/internal/tmdb"
)

type movieFixture struct {
	store   *memstore.Store
	catalog *memstore.Catalog
	svc     *MovieService
}

func newMovieFixture() *movieFixture {
	store := memstore.New()
	catalog := memstore.NewCatalog(fightClub(), theMatrix())
	return &movieFixture{
		store:   store,
		catalog: catalog,
		svc: NewMovieService(MovieServiceConfig{
			Catalog:      catalog,
			MovieRepo:    store.Movies(),
			FavoriteRepo: store.Favorites(),
		}),
	}
}

// ============================================================================
// Catalog Passthrough Tests
// ============================================================================

func TestMovieService_Popular_ClampsPage(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	raw, err := f.svc.Popular(context.Background(), -3)
	require.NoError(t, err)

	var body struct {
		Page    int               `json:"page"`
		Results []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, 1, body.Page)
	assert.Len(t, body.Results, 2)
}

func TestMovieService_Search(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	_, err := f.svc.Search(context.Background(), "   ", 1)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Search query is required", vErr.Errors[0].Message)

	raw, err := f.svc.Search(context.Background(), "matrix", 1)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "The Matrix")
	assert.NotContains(t, string(raw), "Fight Club")
}

func TestMovieService_Details(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	details, err := f.svc.Details(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", details.Title)

	_, err = f.svc.Details(context.Background(), 0)
	var idErr *model.InvalidIDError
	assert.ErrorAs(t, err, &idErr)

	_, err = f.svc.Details(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestMovieService_Details_UpstreamFailurePassesThrough(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()
	f.catalog.Fail = tmdb.ErrUnavailable

	_, err := f.svc.Details(context.Background(), 550)
	assert.ErrorIs(t, err, tmdb.ErrUnavailable)
}

// ============================================================================
// Favorite Tests
// ============================================================================

func TestMovieService_AddFavorite_Idempotent(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	first, err := f.svc.AddFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.NotNil(t, first.Favorite.Movie)
	assert.Equal(t, "Fight Club", first.Favorite.Movie.Title)
	require.NotNil(t, first.Favorite.Movie.ReleaseDate)
	assert.Equal(t, 1999, first.Favorite.Movie.ReleaseDate.Year())

	second, err := f.svc.AddFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Favorite.ID, second.Favorite.ID)

	assert.Equal(t, 1, f.store.FavoriteCount("user-1"))
	assert.Equal(t, 1, f.store.MovieCount())
	assert.EqualValues(t, 1, f.catalog.DetailCalls.Load(), "metadata is fetched once then served locally")
}

func TestMovieService_AddFavorite_SharedMovieAcrossUsers(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	a, err := f.svc.AddFavorite(context.Background(), "user-a", 603)
	require.NoError(t, err)
	b, err := f.svc.AddFavorite(context.Background(), "user-b", 603)
	require.NoError(t, err)

	assert.True(t, b.Created)
	assert.Equal(t, a.Favorite.MovieID, b.Favorite.MovieID)
	assert.Equal(t, 1, f.store.MovieCount())
}

func TestMovieService_AddFavorite_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tmdbID  int
		fail    error
		wantErr func(t *testing.T, err error)
	}{
		{
			name:   "unknown movie",
			tmdbID: 424242,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMovieNotFound)
			},
		},
		{
			name:   "non-positive id",
			tmdbID: -1,
			wantErr: func(t *testing.T, err error) {
				var idErr *model.InvalidIDError
				assert.ErrorAs(t, err, &idErr)
			},
		},
		{
			name:   "catalog down",
			tmdbID: 550,
			fail:   tmdb.ErrUnavailable,
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, tmdb.ErrUnavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newMovieFixture()
			f.catalog.Fail = tt.fail

			res, err := f.svc.AddFavorite(context.Background(), "user-1", tt.tmdbID)
			require.Error(t, err)
			assert.Nil(t, res)
			tt.wantErr(t, err)
			assert.Zero(t, f.store.FavoriteCount("user-1"))
		})
	}
}

func TestMovieService_ListFavorites(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	empty, err := f.svc.ListFavorites(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, empty, "empty list serializes as []")
	assert.Empty(t, empty)

	_, err = f.svc.AddFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)
	_, err = f.svc.AddFavorite(context.Background(), "user-1", 603)
	require.NoError(t, err)
	_, err = f.svc.AddFavorite(context.Background(), "user-2", 550)
	require.NoError(t, err)

	favs, err := f.svc.ListFavorites(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, 603, favs[0].Movie.TMDBID, "newest first")
	assert.Equal(t, 550, favs[1].Movie.TMDBID)
}

func TestMovieService_RemoveFavorite(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	res, err := f.svc.AddFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)

	err = f.svc.RemoveFavorite(context.Background(), "user-2", res.Favorite.MovieID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound, "other users cannot remove it")

	require.NoError(t, f.svc.RemoveFavorite(context.Background(), "user-1", res.Favorite.MovieID))
	assert.Zero(t, f.store.FavoriteCount("user-1"))

	err = f.svc.RemoveFavorite(context.Background(), "user-1", res.Favorite.MovieID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestMovieService_IsFavorite(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()

	ok, err := f.svc.IsFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.AddFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)

	ok, err = f.svc.IsFavorite(context.Background(), "user-1", 550)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMovieService_StoreFailure(t *testing.T) {
	t.Parallel()
	f := newMovieFixture()
	boom := errors.New("connection reset")
	f.store.Fail = boom

	_, err := f.svc.AddFavorite(context.Background(), "user-1", 550)
	assert.ErrorIs(t, err, boom)
	_, err = f.svc.ListFavorites(context.Background(), "user-1")
	assert.ErrorIs(t, err, boom)
}
