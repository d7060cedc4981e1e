package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

type fakeProfileRepo struct {
	rows    map[string]*domain.Profile
	getErr  error
	upserts int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{rows: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rows[userID], nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	f.upserts++
	f.rows[profile.UserID] = profile
	return profile, nil
}

func strPtr(v string) *string { return &v }

func newProfileFixture() (ProfileService, *fakeProfileRepo) {
	repo := newFakeProfileRepo()
	return NewProfileService(repo, logger.NewNop()), repo
}

func TestProfileService_GetProfileMissingRowIsNilNotError(t *testing.T) {
	svc, _ := newProfileFixture()

	profile, err := svc.GetProfile(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileService_UpdateTrimsDisplayName(t *testing.T) {
	svc, repo := newProfileFixture()

	updated, err := svc.UpdateProfile(context.Background(), "user-a", &domain.UpdateProfileRequest{
		DisplayName: strPtr("  Trainer Red  "),
		Theme:       strPtr("dark"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Trainer Red", *updated.DisplayName)
	assert.Equal(t, 1, repo.upserts)
}

func TestProfileService_UpdateRejectsLongDisplayName(t *testing.T) {
	svc, repo := newProfileFixture()

	_, err := svc.UpdateProfile(context.Background(), "user-a", &domain.UpdateProfileRequest{
		DisplayName: strPtr(strings.Repeat("x", maxDisplayNameLength+1)),
	})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Zero(t, repo.upserts)
}

func TestProfileService_SeedFromMetadataCreatesRow(t *testing.T) {
	svc, repo := newProfileFixture()

	profile, err := svc.SeedFromMetadata(context.Background(), &domain.User{
		ID: "user-a",
		Metadata: map[string]interface{}{
			"full_name": "Trainer Red",
			"picture":   "https://lh3.example.com/photo.jpg",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Trainer Red", *profile.DisplayName)
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, "https://lh3.example.com/photo.jpg", *profile.AvatarURL)
	assert.Equal(t, 1, repo.upserts)
}

func TestProfileService_SeedFromMetadataFallbackKeys(t *testing.T) {
	svc, _ := newProfileFixture()

	// "name" only applies when "full_name" is absent or blank.
	profile, err := svc.SeedFromMetadata(context.Background(), &domain.User{
		ID: "user-a",
		Metadata: map[string]interface{}{
			"full_name": "   ",
			"name":      "Red",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Red", *profile.DisplayName)
}

func TestProfileService_SeedDoesNotOverwriteExistingRow(t *testing.T) {
	svc, repo := newProfileFixture()
	repo.rows["user-a"] = &domain.Profile{UserID: "user-a", DisplayName: strPtr("Custom Name")}

	profile, err := svc.SeedFromMetadata(context.Background(), &domain.User{
		ID:       "user-a",
		Metadata: map[string]interface{}{"full_name": "Google Name"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Custom Name", *profile.DisplayName)
	assert.Zero(t, repo.upserts)
}

func TestProfileService_SeedWithoutMetadataIsBareRow(t *testing.T) {
	svc, _ := newProfileFixture()

	profile, err := svc.SeedFromMetadata(context.Background(), &domain.User{ID: "user-a"})
	require.NoError(t, err)
	assert.Nil(t, profile.DisplayName)
	assert.Nil(t, profile.AvatarURL)
}
