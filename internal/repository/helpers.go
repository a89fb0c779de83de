package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// movieColumns selects a movie aliased as m, in scanMovie order.
const movieColumns = `m.id, m.tmdb_id, m.title, m.overview, m.poster_path, m.backdrop_path, m.release_date, m.vote_average, m.created_at`

// movieDest returns scan targets for movieColumns.
func movieDest(m *model.Movie) []any {
	return []any{
		&m.ID, &m.TMDBID, &m.Title, &m.Overview, &m.PosterPath,
		&m.BackdropPath, &m.ReleaseDate, &m.VoteAverage, &m.CreatedAt,
	}
}

// notFoundAsNil turns a missing row into (nil, nil), the convention for
// Get-style lookups.
func notFoundAsNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// collect drains rows through scan and classifies any failure under op.
func collect[T any](op string, rows pgx.Rows, scan func(row pgx.CollectableRow) (T, error)) ([]T, error) {
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, database.Classify(op, err)
	}
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}
