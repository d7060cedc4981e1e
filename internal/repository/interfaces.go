package repository

import (
	"context"
	"errors"

	"sleepcalc-api/internal/domain"
)

// ErrNotFound marks a write that matched no row for the requesting user.
var ErrNotFound = errors.New("not found")

// ProfileRepository defines the interface for profile row operations
type ProfileRepository interface {
	// GetByUserID retrieves at most one profile row; absence is (nil, nil)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)

	// Upsert inserts or updates the row keyed by user_id
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

// TeamRepository defines the interface for team slot operations
type TeamRepository interface {
	// GetSlots retrieves the user's slots ordered by slot number
	GetSlots(ctx context.Context, userID string) ([]domain.TeamSlot, error)

	// EnsureSlots idempotently creates any missing slots 1..TeamSlotCount
	EnsureSlots(ctx context.Context, userID string) error

	// SetSlot assigns a bank entry to a slot; nil clears it
	SetSlot(ctx context.Context, userID string, slot int, bankID *int64) error

	// SwapSlots exchanges the contents of two slots in one batch
	SwapSlots(ctx context.Context, userID string, slotA, slotB int) error
}

// BankRepository defines the interface for user-owned pokemon operations
type BankRepository interface {
	// ListByUser retrieves the user's bank joined with base data and nature
	ListByUser(ctx context.Context, userID string) ([]domain.BankEntry, error)

	// Create inserts a new bank entry for the user
	Create(ctx context.Context, userID string, req *domain.SaveBankEntryRequest) (int64, error)

	// Update updates an entry, scoped by both id and user_id
	Update(ctx context.Context, userID string, id int64, req *domain.SaveBankEntryRequest) error

	// Delete removes an entry, scoped by both id and user_id
	Delete(ctx context.Context, userID string, id int64) error
}

// ReferenceRepository defines the interface for read-only reference data
type ReferenceRepository interface {
	ListPokedex(ctx context.Context, search string, page, pageSize int) (*domain.Page[domain.PokemonBase], error)
	ListRecipes(ctx context.Context, recipeType string, page, pageSize int) (*domain.Page[domain.Recipe], error)
	ListIngredients(ctx context.Context, page, pageSize int) (*domain.Page[domain.Ingredient], error)
	ListMainSkills(ctx context.Context) ([]domain.MainSkill, error)
	ListSubSkills(ctx context.Context) ([]domain.SubSkill, error)
	ListIslands(ctx context.Context) ([]domain.Island, error)
	ListNatures(ctx context.Context) ([]domain.Nature, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Profile   ProfileRepository
	Team      TeamRepository
	Bank      BankRepository
	Reference ReferenceRepository
}
