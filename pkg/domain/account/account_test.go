package account_test

import (
	"testing"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func newLimitID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func mustBuild(t *testing.T, b *account.Builder) *account.Account {
	t.Helper()
	acc, err := b.Build()
	require.NoError(t, err)
	return acc
}

func TestBuild(t *testing.T) {
	t.Parallel()
	userID := newUserID(t)

	t.Run("bank defaults", func(t *testing.T) {
		acc := mustBuild(t, account.New().WithUserID(userID).WithName("Checking"))
		assert.NotEqual(t, uuid.Nil, acc.ID)
		assert.Equal(t, account.TypeBank, acc.Type)
		assert.Equal(t, 0.0, acc.Balance)
		assert.False(t, acc.IsPooled())
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := account.New().Build()
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := account.New().WithUserID(userID).WithType("SAVINGS").Build()
		assert.ErrorIs(t, err, account.ErrUnknownAccountType)
	})

	t.Run("shared limit requires credit type", func(t *testing.T) {
		_, err := account.New().
			WithUserID(userID).
			WithType(account.TypeCash).
			WithSharedLimit(newLimitID(t)).
			Build()
		assert.ErrorIs(t, err, account.ErrNotCreditAccount)
	})

	t.Run("due day out of range", func(t *testing.T) {
		_, err := account.New().
			WithUserID(userID).
			WithType(account.TypeCredit).
			WithBillingCycle(15, 32).
			Build()
		assert.Error(t, err)
	})

	t.Run("balance rounded on hydration", func(t *testing.T) {
		acc := mustBuild(t, account.New().WithUserID(userID).WithBalance(10.005))
		assert.Equal(t, 10.01, acc.Balance)
	})
}

func TestValidateMutation(t *testing.T) {
	t.Parallel()
	userID := newUserID(t)
	acc := mustBuild(t, account.New().WithUserID(userID))

	assert.NoError(t, acc.ValidateMutation(userID))
	assert.ErrorIs(t, acc.ValidateMutation(uuid.New()), account.ErrNotOwner)

	archived := mustBuild(t, account.New().WithUserID(userID).WithArchived(true))
	assert.ErrorIs(t, archived.ValidateMutation(userID), account.ErrAccountArchived)
}
