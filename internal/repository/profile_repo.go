package repository

import (
	"context"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts the profile attached to a freshly created user. Role is
// fixed here and never updated afterwards.
func (r *ProfileRepository) Create(ctx context.Context, userID int64, role models.Role) error {
	query := `INSERT INTO profiles (user_id, role) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, string(role))
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT id, user_id, role, full_name, bio, avatar_url, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Role,
		&profile.FullName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateProfileInput struct {
	FullName  *string
	Bio       *string
	AvatarURL *string
}

func (r *ProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateProfileInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = COALESCE($1, full_name),
			bio = COALESCE($2, bio),
			avatar_url = COALESCE($3, avatar_url),
			updated_at = NOW()
		WHERE user_id = $4
		RETURNING id, user_id, role, full_name, bio, avatar_url, created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.Bio,
		req.AvatarURL,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Role,
		&profile.FullName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
