package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleepcalc-api/internal/domain"
	"sleepcalc-api/pkg/errors"
	"sleepcalc-api/pkg/logger"
)

type fakeTeamRepo struct {
	slots       map[int]*int64
	ensured     bool
	swapped     [2]int
	getSlotsErr error
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{slots: make(map[int]*int64)}
}

func (f *fakeTeamRepo) GetSlots(ctx context.Context, userID string) ([]domain.TeamSlot, error) {
	if f.getSlotsErr != nil {
		return nil, f.getSlotsErr
	}
	out := make([]domain.TeamSlot, 0, domain.TeamSlotCount)
	for slot := 1; slot <= domain.TeamSlotCount; slot++ {
		out = append(out, domain.TeamSlot{UserID: userID, Slot: slot, PokemonBankID: f.slots[slot]})
	}
	return out, nil
}

func (f *fakeTeamRepo) EnsureSlots(ctx context.Context, userID string) error {
	f.ensured = true
	return nil
}

func (f *fakeTeamRepo) SetSlot(ctx context.Context, userID string, slot int, bankID *int64) error {
	f.slots[slot] = bankID
	return nil
}

func (f *fakeTeamRepo) SwapSlots(ctx context.Context, userID string, slotA, slotB int) error {
	f.swapped = [2]int{slotA, slotB}
	f.slots[slotA], f.slots[slotB] = f.slots[slotB], f.slots[slotA]
	return nil
}

type fakeBankRepo struct {
	entries []domain.BankEntry
	nextID  int64
	deleted []int64
	err     error
}

func (f *fakeBankRepo) ListByUser(ctx context.Context, userID string) ([]domain.BankEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.BankEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBankRepo) Create(ctx context.Context, userID string, req *domain.SaveBankEntryRequest) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.entries = append(f.entries, domain.BankEntry{ID: f.nextID, UserID: userID, BaseID: req.BaseID, Level: req.Level})
	return f.nextID, nil
}

func (f *fakeBankRepo) Update(ctx context.Context, userID string, id int64, req *domain.SaveBankEntryRequest) error {
	if f.err != nil {
		return f.err
	}
	return nil
}

func (f *fakeBankRepo) Delete(ctx context.Context, userID string, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func bankEntry(id int64, userID, name string) domain.BankEntry {
	return domain.BankEntry{ID: id, UserID: userID, BaseID: id * 10, PokemonName: name}
}

func int64Ptr(v int64) *int64 { return &v }

func newTeamFixture() (TeamService, *fakeTeamRepo, *fakeBankRepo) {
	teams := newFakeTeamRepo()
	bank := &fakeBankRepo{}
	return NewTeamService(teams, bank, logger.NewNop()), teams, bank
}

func TestTeamService_GetTeamJoinsBankEntries(t *testing.T) {
	svc, teams, bank := newTeamFixture()
	bank.entries = []domain.BankEntry{bankEntry(7, "user-a", "Pikachu")}
	teams.slots[2] = int64Ptr(7)

	views, err := svc.GetTeam(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, views, domain.TeamSlotCount)
	assert.True(t, teams.ensured)

	assert.Nil(t, views[0].Pokemon)
	require.NotNil(t, views[1].Pokemon)
	assert.Equal(t, "Pikachu", views[1].Pokemon.PokemonName)
}

func TestTeamService_GetTeamDanglingReferenceRendersEmpty(t *testing.T) {
	svc, teams, _ := newTeamFixture()
	teams.slots[1] = int64Ptr(99)

	views, err := svc.GetTeam(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Nil(t, views[0].Pokemon)
}

func TestTeamService_SetSlotRejectsForeignBankEntry(t *testing.T) {
	svc, teams, bank := newTeamFixture()
	bank.entries = []domain.BankEntry{bankEntry(7, "user-b", "Snorlax")}

	err := svc.SetSlot(context.Background(), "user-a", 1, int64Ptr(7))
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
	assert.Empty(t, teams.slots)
}

func TestTeamService_SetSlotValidation(t *testing.T) {
	svc, _, _ := newTeamFixture()

	assert.Error(t, svc.SetSlot(context.Background(), "", 1, nil))
	assert.Error(t, svc.SetSlot(context.Background(), "user-a", 0, nil))
	assert.Error(t, svc.SetSlot(context.Background(), "user-a", domain.TeamSlotCount+1, nil))
}

func TestTeamService_ClearSlot(t *testing.T) {
	svc, teams, bank := newTeamFixture()
	bank.entries = []domain.BankEntry{bankEntry(7, "user-a", "Pikachu")}
	require.NoError(t, svc.SetSlot(context.Background(), "user-a", 3, int64Ptr(7)))

	require.NoError(t, svc.ClearSlot(context.Background(), "user-a", 3))
	assert.Nil(t, teams.slots[3])
}

func TestTeamService_SwapSlots(t *testing.T) {
	svc, teams, _ := newTeamFixture()
	teams.slots[1] = int64Ptr(7)

	require.NoError(t, svc.SwapSlots(context.Background(), "user-a", 1, 4))
	assert.Equal(t, [2]int{1, 4}, teams.swapped)
	assert.Nil(t, teams.slots[1])
	require.NotNil(t, teams.slots[4])
	assert.Equal(t, int64(7), *teams.slots[4])
}

func TestTeamService_SwapSameSlotIsNoop(t *testing.T) {
	svc, teams, _ := newTeamFixture()

	require.NoError(t, svc.SwapSlots(context.Background(), "user-a", 2, 2))
	assert.Equal(t, [2]int{0, 0}, teams.swapped)
}
