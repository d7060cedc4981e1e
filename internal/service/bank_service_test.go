package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/internal/repository"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

type fakeRecommendations struct {
	invalidated []string
}

func (f *fakeRecommendations) Recommend(ctx context.Context, userID string, req *domain.RecommendationRequest) ([]domain.RecommendationRow, error) {
	return nil, nil
}

func (f *fakeRecommendations) InvalidateUser(ctx context.Context, userID string) {
	f.invalidated = append(f.invalidated, userID)
}

func intPtr(v int) *int { return &v }

func newBankFixture() (BankService, *fakeBankRepo, *fakeRecommendations) {
	repo := &fakeBankRepo{}
	recs := &fakeRecommendations{}
	return NewBankService(repo, recs, logger.NewNop()), repo, recs
}

func TestBankService_CreateInvalidatesRecommendations(t *testing.T) {
	svc, repo, recs := newBankFixture()

	id, err := svc.Create(context.Background(), "user-a", &domain.SaveBankEntryRequest{BaseID: 25, Level: intPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Len(t, repo.entries, 1)
	assert.Equal(t, []string{"user-a"}, recs.invalidated)
}

func TestBankService_CreateValidation(t *testing.T) {
	svc, _, recs := newBankFixture()

	tests := []struct {
		name   string
		userID string
		req    *domain.SaveBankEntryRequest
	}{
		{name: "missing user", userID: "", req: &domain.SaveBankEntryRequest{BaseID: 25}},
		{name: "nil body", userID: "user-a", req: nil},
		{name: "missing pokemon", userID: "user-a", req: &domain.SaveBankEntryRequest{}},
		{name: "level too low", userID: "user-a", req: &domain.SaveBankEntryRequest{BaseID: 25, Level: intPtr(0)}},
		{name: "level too high", userID: "user-a", req: &domain.SaveBankEntryRequest{BaseID: 25, Level: intPtr(66)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.userID, tt.req)
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
		})
	}

	// Rejected writes never touch the cache.
	assert.Empty(t, recs.invalidated)
}

func TestBankService_UpdateMissingEntryIsNotFound(t *testing.T) {
	svc, repo, recs := newBankFixture()
	repo.err = fmt.Errorf("bank entry 42: %w", repository.ErrNotFound)

	err := svc.Update(context.Background(), "user-a", 42, &domain.SaveBankEntryRequest{BaseID: 25})
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
	assert.Empty(t, recs.invalidated)
}

func TestBankService_DeleteInvalidatesRecommendations(t *testing.T) {
	svc, repo, recs := newBankFixture()

	require.NoError(t, svc.Delete(context.Background(), "user-a", 7))
	assert.Equal(t, []int64{7}, repo.deleted)
	assert.Equal(t, []string{"user-a"}, recs.invalidated)
}

func TestBankService_DeleteMissingEntryIsNotFound(t *testing.T) {
	svc, repo, _ := newBankFixture()
	repo.err = fmt.Errorf("bank entry 7: %w", repository.ErrNotFound)

	err := svc.Delete(context.Background(), "user-a", 7)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
}

func TestBankService_ListScopedToUser(t *testing.T) {
	svc, repo, _ := newBankFixture()
	repo.entries = []domain.BankEntry{
		bankEntry(1, "user-a", "Pikachu"),
		bankEntry(2, "user-b", "Snorlax"),
	}

	entries, err := svc.List(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pikachu", entries[0].PokemonName)
}
