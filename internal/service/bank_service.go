package service

import (
	"context"
	stderrors "errors"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/repository"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

const (
	minPokemonLevel = 1
	maxPokemonLevel = 65
)

// bankService handles the user's pokemon collection
type bankService struct {
	repo            repository.BankRepository
	recommendations RecommendationService
	logger          *logger.Logger
}

// NewBankService creates a new bank service. Every write drops the user's
// cached recommendations, since they are scored from the bank.
func NewBankService(repo repository.BankRepository, recommendations RecommendationService, log *logger.Logger) BankService {
	return &bankService{
		repo:            repo,
		recommendations: recommendations,
		logger:          log,
	}
}

// List retrieves the user's bank entries
func (s *bankService) List(ctx context.Context, userID string) ([]domain.BankEntry, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required", nil)
	}

	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load bank entries", err)
	}
	return entries, nil
}

// Create adds a new entry and returns its id
func (s *bankService) Create(ctx context.Context, userID string, req *domain.SaveBankEntryRequest) (int64, error) {
	if err := s.validateRequest(userID, req); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return 0, errors.NewInternalError("failed to create bank entry", err)
	}

	s.recommendations.InvalidateUser(ctx, userID)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"bank_id": id,
	}).Info("Bank entry created")
	return id, nil
}

// Update edits an existing entry owned by the user
func (s *bankService) Update(ctx context.Context, userID string, id int64, req *domain.SaveBankEntryRequest) error {
	if err := s.validateRequest(userID, req); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, userID, id, req); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("bank entry not found")
		}
		return errors.NewInternalError("failed to update bank entry", err)
	}

	s.recommendations.InvalidateUser(ctx, userID)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"bank_id": id,
	}).Info("Bank entry updated")
	return nil
}

// Delete removes an entry owned by the user
func (s *bankService) Delete(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return errors.NewValidationError("user id is required", nil)
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("bank entry not found")
		}
		return errors.NewInternalError("failed to delete bank entry", err)
	}

	s.recommendations.InvalidateUser(ctx, userID)
	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"bank_id": id,
	}).Info("Bank entry deleted")
	return nil
}

func (s *bankService) validateRequest(userID string, req *domain.SaveBankEntryRequest) error {
	if userID == "" {
		return errors.NewValidationError("user id is required", nil)
	}
	if req == nil {
		return errors.NewValidationError("request body is required", nil)
	}
	if req.BaseID <= 0 {
		return errors.NewValidationError("pokemon is required", nil)
	}
	if req.Level != nil && (*req.Level < minPokemonLevel || *req.Level > maxPokemonLevel) {
		return errors.NewValidationError("level out of range", map[string]interface{}{
			"min": minPokemonLevel,
			"max": maxPokemonLevel,
		})
	}
	return nil
}
