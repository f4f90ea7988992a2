package report_test

import (
	"math/rand"
	"testing"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, typ account.Type, balance float64, archived bool) *account.Account {
	t.Helper()
	acc, err := account.New().
		WithUserID(uuid.New()).
		WithType(typ).
		WithBalance(balance).
		WithArchived(archived).
		Build()
	require.NoError(t, err)
	return acc
}

func TestCalculateNetWorth(t *testing.T) {
	t.Parallel()
	accounts := []*account.Account{
		build(t, account.TypeBank, 1500, false),    // asset
		build(t, account.TypeCash, 200, false),     // asset
		build(t, account.TypeBank, -100, false),    // overdraft, liability
		build(t, account.TypeCredit, -750, false),  // debt, liability
		build(t, account.TypeCredit, 50, false),    // overpayment, asset
		build(t, account.TypeBank, 99999, true),    // archived, excluded
		build(t, account.TypeCredit, -99999, true), // archived, excluded
	}

	nw := report.CalculateNetWorth(accounts)
	assert.Equal(t, 1750.0, nw.TotalAssets)
	assert.Equal(t, 850.0, nw.TotalLiabilities)
	assert.Equal(t, 900.0, nw.NetWorth)
}

func TestCalculateNetWorthOrderIndependent(t *testing.T) {
	t.Parallel()
	accounts := []*account.Account{
		build(t, account.TypeBank, 123.45, false),
		build(t, account.TypeCredit, -67.89, false),
		build(t, account.TypeCash, 10, false),
		build(t, account.TypeBank, -4.32, false),
		build(t, account.TypeCredit, 8.76, false),
	}
	want := report.CalculateNetWorth(accounts)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(accounts), func(a, b int) {
			accounts[a], accounts[b] = accounts[b], accounts[a]
		})
		assert.Equal(t, want, report.CalculateNetWorth(accounts))
	}
}

func TestCalculateNetWorthEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, report.NetWorth{}, report.CalculateNetWorth(nil))
}
