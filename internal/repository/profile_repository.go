package repository

import (
	"context"
	"fmt"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

// profileRepository handles profile row operations with PostgreSQL
type profileRepository struct {
	db *database.PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.PostgresDB) ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// GetByUserID retrieves at most one profile row. No row is (nil, nil),
// not an error.
func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, display_name, avatar_url, theme, updated_at::text
		FROM profiles
		WHERE user_id = $1
	`

	profile := &domain.Profile{}
	err := r.db.GetReadPool().QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.Theme,
		&profile.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Upsert inserts or updates the row keyed by user_id
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, display_name, avatar_url, theme, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			theme = EXCLUDED.theme,
			updated_at = NOW()
		RETURNING user_id, display_name, avatar_url, theme, updated_at::text
	`

	saved := &domain.Profile{}
	err := r.db.Pool.QueryRow(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.AvatarURL,
		profile.Theme,
	).Scan(
		&saved.UserID,
		&saved.DisplayName,
		&saved.AvatarURL,
		&saved.Theme,
		&saved.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return saved, nil
}
