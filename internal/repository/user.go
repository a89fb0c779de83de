package repository

import (
	"context"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and an empty profile in one transaction. A taken
// email fails with database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return database.RetryExec(ctx, r.db, func(ctx context.Context) error {
		return r.db.WithTx(ctx, func(q database.Querier) error {
			err := q.QueryRow(ctx, `
				INSERT INTO users (id, email, password, name)
				VALUES ($1, $2, $3, $4)
				RETURNING created_at, updated_at`,
				user.ID, user.Email, user.Hash, user.Name,
			).Scan(&user.CreatedAt, &user.UpdatedAt)
			if err != nil {
				return err
			}

			_, err = q.Exec(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, user.ID)
			return err
		})
	})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.User, error) {
		var u model.User
		err := r.db.QueryRow(ctx,
			`SELECT id, email, password, name, created_at, updated_at FROM users `+where, arg,
		).Scan(&u.ID, &u.Email, &u.Hash, &u.Name, &u.CreatedAt, &u.UpdatedAt)
		return notFoundAsNil(&u, err)
	})
}
