package service

import (
	"context"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/repository"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

// teamService handles the fixed five-slot roster
type teamService struct {
	teams  repository.TeamRepository
	bank   repository.BankRepository
	logger *logger.Logger
}

// NewTeamService creates a new team service
func NewTeamService(teams repository.TeamRepository, bank repository.BankRepository, log *logger.Logger) TeamService {
	return &teamService{
		teams:  teams,
		bank:   bank,
		logger: log,
	}
}

// GetTeam retrieves all five slots joined with their bank entries. Missing
// slot rows are created first so every user always sees the full roster.
func (s *teamService) GetTeam(ctx context.Context, userID string) ([]domain.TeamSlotView, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required", nil)
	}

	if err := s.teams.EnsureSlots(ctx, userID); err != nil {
		return nil, errors.NewInternalError("failed to prepare team slots", err)
	}

	slots, err := s.teams.GetSlots(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load team slots", err)
	}

	entries, err := s.bank.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load bank entries", err)
	}
	byID := make(map[int64]*domain.BankEntry, len(entries))
	for i := range entries {
		byID[entries[i].ID] = &entries[i]
	}

	views := make([]domain.TeamSlotView, 0, len(slots))
	for _, slot := range slots {
		view := domain.TeamSlotView{Slot: slot.Slot}
		if slot.PokemonBankID != nil {
			// A dangling reference (entry deleted elsewhere) renders empty.
			view.Pokemon = byID[*slot.PokemonBankID]
		}
		views = append(views, view)
	}
	return views, nil
}

// SetSlot assigns a bank entry to a slot after checking ownership
func (s *teamService) SetSlot(ctx context.Context, userID string, slot int, bankID *int64) error {
	if userID == "" {
		return errors.NewValidationError("user id is required", nil)
	}
	if !domain.ValidSlot(slot) {
		return errors.NewValidationError("slot out of range", map[string]interface{}{
			"slot": slot,
			"max":  domain.TeamSlotCount,
		})
	}

	if bankID != nil {
		owned, err := s.ownsBankEntry(ctx, userID, *bankID)
		if err != nil {
			return errors.NewInternalError("failed to verify bank entry", err)
		}
		if !owned {
			return errors.NewNotFoundError("bank entry not found")
		}
	}

	if err := s.teams.SetSlot(ctx, userID, slot, bankID); err != nil {
		return errors.NewInternalError("failed to set team slot", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"slot":    slot,
	}).Info("Team slot updated")
	return nil
}

// ClearSlot empties a slot
func (s *teamService) ClearSlot(ctx context.Context, userID string, slot int) error {
	return s.SetSlot(ctx, userID, slot, nil)
}

// SwapSlots exchanges the contents of two slots
func (s *teamService) SwapSlots(ctx context.Context, userID string, slotA, slotB int) error {
	if userID == "" {
		return errors.NewValidationError("user id is required", nil)
	}
	if !domain.ValidSlot(slotA) || !domain.ValidSlot(slotB) {
		return errors.NewValidationError("slot out of range", map[string]interface{}{
			"slot_a": slotA,
			"slot_b": slotB,
			"max":    domain.TeamSlotCount,
		})
	}
	if slotA == slotB {
		return nil
	}

	if err := s.teams.SwapSlots(ctx, userID, slotA, slotB); err != nil {
		return errors.NewInternalError("failed to swap team slots", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"slot_a":  slotA,
		"slot_b":  slotB,
	}).Info("Team slots swapped")
	return nil
}

func (s *teamService) ownsBankEntry(ctx context.Context, userID string, bankID int64) (bool, error) {
	entries, err := s.bank.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.ID == bankID {
			return true, nil
		}
	}
	return false, nil
}
