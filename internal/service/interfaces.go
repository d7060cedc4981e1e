package service

import (
	"context"

	"sleepcalc-api/internal/domain"
)

// TokenService defines the interface for access-token validation
type TokenService interface {
	// ValidateAccessToken verifies a Supabase JWT and returns its claims
	ValidateAccessToken(ctx context.Context, token string) (*domain.AuthClaims, error)
}

// ProfileService defines the interface for profile settings operations
type ProfileService interface {
	// GetProfile retrieves the user's profile row; absence is (nil, nil)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// UpdateProfile upserts the settings form fields
	UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.Profile, error)

	// SeedFromMetadata creates a profile from provider metadata when none exists
	SeedFromMetadata(ctx context.Context, user *domain.User) (*domain.Profile, error)
}

// TeamService defines the interface for the fixed five-slot roster
type TeamService interface {
	// GetTeam retrieves all slots joined with their bank entries
	GetTeam(ctx context.Context, userID string) ([]domain.TeamSlotView, error)

	// SetSlot assigns a bank entry to a slot
	SetSlot(ctx context.Context, userID string, slot int, bankID *int64) error

	// ClearSlot empties a slot
	ClearSlot(ctx context.Context, userID string, slot int) error

	// SwapSlots exchanges the contents of two slots
	SwapSlots(ctx context.Context, userID string, slotA, slotB int) error
}

// BankService defines the interface for the user's pokemon collection
type BankService interface {
	// List retrieves the user's bank entries
	List(ctx context.Context, userID string) ([]domain.BankEntry, error)

	// Create adds a new entry and returns its id
	Create(ctx context.Context, userID string, req *domain.SaveBankEntryRequest) (int64, error)

	// Update edits an existing entry owned by the user
	Update(ctx context.Context, userID string, id int64, req *domain.SaveBankEntryRequest) error

	// Delete removes an entry owned by the user
	Delete(ctx context.Context, userID string, id int64) error
}

// ReferenceService defines the interface for cached reference data
type ReferenceService interface {
	GetPokedex(ctx context.Context, search string, page, pageSize int) (*domain.Page[domain.PokemonBase], error)
	GetRecipes(ctx context.Context, recipeType string, page, pageSize int) (*domain.Page[domain.Recipe], error)
	GetIngredients(ctx context.Context, page, pageSize int) (*domain.Page[domain.Ingredient], error)
	GetSkills(ctx context.Context) (*domain.SkillsResponse, error)
	GetIslands(ctx context.Context) ([]domain.Island, error)
	GetNatures(ctx context.Context) ([]domain.Nature, error)
}

// RecommendationService defines the interface for the remote team scorer
type RecommendationService interface {
	// Recommend scores the user's bank for an island and goal
	Recommend(ctx context.Context, userID string, req *domain.RecommendationRequest) ([]domain.RecommendationRow, error)

	// InvalidateUser drops every cached recommendation for the user
	InvalidateUser(ctx context.Context, userID string)
}

// Services aggregates all service interfaces
type Services struct {
	Token          TokenService
	Profile        ProfileService
	Team           TeamService
	Bank           BankService
	Reference      ReferenceService
	Recommendation RecommendationService
}
