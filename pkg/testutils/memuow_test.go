package testutils

import (
	"context"
	"errors"
	"testing"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBank(t *testing.T, uow *MemoryUoW, balance float64) *account.Account {
	t.Helper()
	a, err := account.New().
		WithUserID(uuid.New()).
		WithName("Checking").
		WithBalance(balance).
		Build()
	require.NoError(t, err)
	uow.SeedAccount(a)
	return a
}

func TestDoRollbackInvisibleOutsideDo(t *testing.T) {
	t.Parallel()
	uow := NewMemoryUoW()
	a := seedBank(t, uow, 100)

	boom := errors.New("boom")
	err := uow.Do(context.Background(), func(inner repository.UnitOfWork) error {
		repo, err := inner.AccountRepository()
		require.NoError(t, err)
		require.NoError(t, repo.UpdateBalance(context.Background(), a.ID, 999))
		return boom
	})
	require.ErrorIs(t, err, boom)

	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	got, err := repo.Get(context.Background(), a.UserID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Balance, "failed unit must not leak into the committed store")
}

func TestDoCommitVisibleOutsideDo(t *testing.T) {
	t.Parallel()
	uow := NewMemoryUoW()
	a := seedBank(t, uow, 100)

	// A repository taken before Do is a point-in-time view of the
	// committed store; it must not observe the staged unit's commit.
	before, err := uow.AccountRepository()
	require.NoError(t, err)

	err = uow.Do(context.Background(), func(inner repository.UnitOfWork) error {
		repo, err := inner.AccountRepository()
		require.NoError(t, err)
		return repo.UpdateBalance(context.Background(), a.ID, 250)
	})
	require.NoError(t, err)

	stale, err := before.Get(context.Background(), a.UserID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stale.Balance)

	after, err := uow.AccountRepository()
	require.NoError(t, err)
	got, err := after.Get(context.Background(), a.UserID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.Balance)
}
