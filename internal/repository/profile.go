package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/forgo/moveyes/internal/database"
	"github.com/forgo/moveyes/internal/model"
)

// ProfileRepository handles profile data access
type ProfileRepository struct {
	db database.Database
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.Database) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const selectProfile = `
	SELECT p.id, p.user_id, p.bio, p.avatar_url, p.nickname, p.hobbies, p.social_media,
	       p.created_at, p.updated_at, u.id, u.email, u.name
	FROM profiles p
	JOIN users u ON u.id = p.user_id
	WHERE p.user_id = $1`

// GetByUserID retrieves the profile owned by userID with the user embedded
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.Profile, error) {
		return notFoundAsNil(scanProfile(r.db.QueryRow(ctx, selectProfile, userID)))
	})
}

// Update applies the non-nil fields of req. The user's name and the profile
// row change together or not at all.
func (r *ProfileRepository) Update(ctx context.Context, userID string, req *model.UpdateProfileRequest) (*model.Profile, error) {
	return database.WithRetry(ctx, r.db, func(ctx context.Context) (*model.Profile, error) {
		var out *model.Profile
		err := r.db.WithTx(ctx, func(q database.Querier) error {
			if req.Name != nil {
				if _, err := q.Exec(ctx,
					`UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1`,
					userID, *req.Name,
				); err != nil {
					return err
				}
			}

			tag, err := q.Exec(ctx, `
				UPDATE profiles SET
					bio          = COALESCE($2, bio),
					avatar_url   = COALESCE($3, avatar_url),
					nickname     = COALESCE($4, nickname),
					hobbies      = COALESCE($5, hobbies),
					social_media = COALESCE($6, social_media),
					updated_at   = NOW()
				WHERE user_id = $1`,
				userID, req.Bio, req.AvatarURL, req.Nickname, req.Hobbies, req.SocialMedia,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return database.Classify("update profile", pgx.ErrNoRows)
			}

			out, err = scanProfile(q.QueryRow(ctx, selectProfile, userID))
			return err
		})
		return out, err
	})
}

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var (
		p model.Profile
		u model.UserSummary
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Bio, &p.AvatarURL, &p.Nickname, &p.Hobbies, &p.SocialMedia,
		&p.CreatedAt, &p.UpdatedAt, &u.ID, &u.Email, &u.Name,
	)
	if err != nil {
		return nil, err
	}
	if p.Hobbies == nil {
		p.Hobbies = []string{}
	}
	if p.SocialMedia == nil {
		p.SocialMedia = map[string]string{}
	}
	p.User = &u
	return &p, nil
}
