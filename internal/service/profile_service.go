package service

import (
	"context"
	"strings"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/repository"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

const maxDisplayNameLength = 60

// Metadata keys Supabase populates for Google sign-ins.
const (
	metadataFullName  = "full_name"
	metadataName      = "name"
	metadataAvatarURL = "avatar_url"
	metadataPicture   = "picture"
)

// profileService handles profile settings on top of the profile repository
type profileService struct {
	repo   repository.ProfileRepository
	logger *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(repo repository.ProfileRepository, log *logger.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: log,
	}
}

// GetProfile retrieves the user's profile row; absence is (nil, nil)
func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required", nil)
	}
	return s.repo.GetByUserID(ctx, userID)
}

// UpdateProfile validates and upserts the settings form fields
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.Profile, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required", nil)
	}
	if req == nil {
		return nil, errors.NewValidationError("request body is required", nil)
	}

	if req.DisplayName != nil {
		trimmed := strings.TrimSpace(*req.DisplayName)
		if len(trimmed) > maxDisplayNameLength {
			return nil, errors.NewValidationError("display name is too long", map[string]interface{}{
				"max_length": maxDisplayNameLength,
			})
		}
		req.DisplayName = &trimmed
	}

	profile := &domain.Profile{
		UserID:      userID,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Theme:       req.Theme,
	}

	updated, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, errors.NewInternalError("failed to save profile", err)
	}

	s.logger.WithField("user_id", userID).Info("Profile updated")
	return updated, nil
}

// SeedFromMetadata creates a profile from the provider metadata bag when the
// user has none yet. An existing row is returned untouched.
func (s *profileService) SeedFromMetadata(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	if user == nil || user.ID == "" {
		return nil, errors.NewValidationError("user is required", nil)
	}

	existing, err := s.repo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	profile := &domain.Profile{UserID: user.ID}
	if name := firstMetadataString(user.Metadata, metadataFullName, metadataName); name != "" {
		profile.DisplayName = &name
	}
	if avatar := firstMetadataString(user.Metadata, metadataAvatarURL, metadataPicture); avatar != "" {
		profile.AvatarURL = &avatar
	}

	seeded, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		return nil, errors.NewInternalError("failed to seed profile", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":     user.ID,
		"from_google": profile.DisplayName != nil,
	}).Info("Profile seeded from provider metadata")
	return seeded, nil
}

// firstMetadataString returns the first non-empty string value among keys.
func firstMetadataString(metadata map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := metadata[key].(string); ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
