package ledger_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	domainledger "github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/aaveggupta/dhandiary/pkg/money"
	ledgersvc "github.com/aaveggupta/dhandiary/pkg/service/ledger"
	"github.com/aaveggupta/dhandiary/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	os.Exit(m.Run())
}

type fixture struct {
	uow    *testutils.MemoryUoW
	svc    *ledgersvc.Service
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := testutils.NewMemoryUoW()
	return &fixture{
		uow:    uow,
		svc:    ledgersvc.NewService(uow, slog.Default()),
		userID: uuid.New(),
	}
}

func (f *fixture) seedAccount(t *testing.T, b *account.Builder) *account.Account {
	t.Helper()
	acc, err := b.WithUserID(f.userID).Build()
	require.NoError(t, err)
	f.uow.SeedAccount(acc)
	return acc
}

func (f *fixture) bank(t *testing.T, balance float64) *account.Account {
	return f.seedAccount(t, account.New().WithType(account.TypeBank).WithBalance(balance))
}

func (f *fixture) credit(t *testing.T, balance, limit float64) *account.Account {
	return f.seedAccount(t, account.New().
		WithType(account.TypeCredit).
		WithBalance(balance).
		WithCreditLimit(limit))
}

func (f *fixture) create(t *testing.T, c dto.TransactionCreate) (*domainledger.Transaction, error) {
	t.Helper()
	c.UserID = f.userID
	return f.svc.CreateTransaction(context.Background(), c)
}

func TestCreateTransaction(t *testing.T) {
	t.Parallel()

	t.Run("income credits the account", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		tx, err := f.create(t, dto.TransactionCreate{
			Amount: 50, Type: "INCOME", AccountID: acc.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 150.0, f.uow.AccountBalance(acc.ID))
		assert.Equal(t, 50.0, tx.Amount)
	})

	t.Run("expense debits the account", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 30, Type: "EXPENSE", AccountID: acc.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 70.0, f.uow.AccountBalance(acc.ID))
	})

	t.Run("transfer moves between accounts without net change", func(t *testing.T) {
		f := newFixture(t)
		src := f.bank(t, 100)
		dst := f.bank(t, 10)
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 40, Type: "TRANSFER", AccountID: src.ID, DestinationID: &dst.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 60.0, f.uow.AccountBalance(src.ID))
		assert.Equal(t, 50.0, f.uow.AccountBalance(dst.ID))
	})

	t.Run("insufficient balance rejects with exact numbers and no partial state", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 100.01, Type: "EXPENSE", AccountID: acc.ID,
		})
		var ife *domainledger.InsufficientFundsError
		require.ErrorAs(t, err, &ife)
		assert.Equal(t, domainledger.CodeInsufficientBalance, ife.Code)
		assert.Equal(t, 100.0, ife.Available)
		assert.Equal(t, 100.01, ife.Required)
		assert.Equal(t, 100.0, f.uow.AccountBalance(acc.ID))
		assert.Equal(t, 0, f.uow.TransactionCount())
	})

	t.Run("credit expense within available credit", func(t *testing.T) {
		f := newFixture(t)
		acc := f.credit(t, -5000, 100000) // available 95000
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 15000, Type: "EXPENSE", AccountID: acc.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, -20000.0, f.uow.AccountBalance(acc.ID))
	})

	t.Run("credit expense beyond available credit", func(t *testing.T) {
		f := newFixture(t)
		acc := f.credit(t, -5000, 100000)
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 96000, Type: "EXPENSE", AccountID: acc.ID,
		})
		var ife *domainledger.InsufficientFundsError
		require.ErrorAs(t, err, &ife)
		assert.Equal(t, domainledger.CodeInsufficientCredit, ife.Code)
		assert.Equal(t, 95000.0, ife.Available)
		assert.Equal(t, 96000.0, ife.Required)
		assert.Equal(t, -5000.0, f.uow.AccountBalance(acc.ID))
	})

	t.Run("pooled credit validates against pool availability", func(t *testing.T) {
		f := newFixture(t)
		limit := &account.SharedLimit{ID: uuid.New(), UserID: f.userID, Name: "Family", TotalLimit: 10000}
		f.uow.SeedSharedLimit(limit)
		card := f.seedAccount(t, account.New().
			WithType(account.TypeCredit).
			WithBalance(-3000).
			WithCreditLimit(999999). // stale individual limit, ignored while pooled
			WithSharedLimit(limit.ID))
		f.seedAccount(t, account.New().
			WithName("sibling").
			WithType(account.TypeCredit).
			WithBalance(-1500).
			WithSharedLimit(limit.ID))

		// Pool: 10000 - 3000 - 1500 = 5500 available.
		_, err := f.create(t, dto.TransactionCreate{Amount: 5500, Type: "EXPENSE", AccountID: card.ID})
		require.NoError(t, err)

		_, err = f.create(t, dto.TransactionCreate{Amount: 0.01, Type: "EXPENSE", AccountID: card.ID})
		var ife *domainledger.InsufficientFundsError
		require.ErrorAs(t, err, &ife)
		assert.Equal(t, domainledger.CodeInsufficientCredit, ife.Code)
		assert.Equal(t, 0.0, ife.Available)
	})

	t.Run("unknown account fails before any write", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 10, Type: "EXPENSE", AccountID: uuid.New(),
		})
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
		assert.Equal(t, 0, f.uow.TransactionCount())
	})

	t.Run("unknown category fails before any write", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		missing := uuid.New()
		_, err := f.create(t, dto.TransactionCreate{
			Amount: 10, Type: "EXPENSE", AccountID: acc.ID, CategoryID: &missing,
		})
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
		assert.Equal(t, 100.0, f.uow.AccountBalance(acc.ID))
		assert.Equal(t, 0, f.uow.TransactionCount())
	})

	t.Run("archived account rejects mutations", func(t *testing.T) {
		f := newFixture(t)
		acc := f.seedAccount(t, account.New().WithType(account.TypeBank).WithBalance(100).WithArchived(true))
		_, err := f.create(t, dto.TransactionCreate{Amount: 10, Type: "INCOME", AccountID: acc.ID})
		assert.ErrorIs(t, err, account.ErrAccountArchived)
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("amount edit round-trips to the original balance", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		tx, err := f.create(t, dto.TransactionCreate{Amount: 30, Type: "EXPENSE", AccountID: acc.ID})
		require.NoError(t, err)
		require.Equal(t, 70.0, f.uow.AccountBalance(acc.ID))

		newAmount := 50.0
		_, err = f.svc.UpdateTransaction(ctx, f.userID, tx.ID, dto.TransactionUpdate{Amount: &newAmount})
		require.NoError(t, err)
		assert.Equal(t, 50.0, f.uow.AccountBalance(acc.ID))

		original := 30.0
		_, err = f.svc.UpdateTransaction(ctx, f.userID, tx.ID, dto.TransactionUpdate{Amount: &original})
		require.NoError(t, err)
		assert.Equal(t, 70.0, f.uow.AccountBalance(acc.ID))
	})

	t.Run("edit validates against the reverted balance, not two separate writes", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		tx, err := f.create(t, dto.TransactionCreate{Amount: 80, Type: "EXPENSE", AccountID: acc.ID})
		require.NoError(t, err)
		require.Equal(t, 20.0, f.uow.AccountBalance(acc.ID))

		// Reverted balance is 100, so 100 is admissible even though the
		// current stored balance is only 20.
		ok := 100.0
		_, err = f.svc.UpdateTransaction(ctx, f.userID, tx.ID, dto.TransactionUpdate{Amount: &ok})
		require.NoError(t, err)
		assert.Equal(t, 0.0, f.uow.AccountBalance(acc.ID))

		// But 100.01 is not: the edit cannot bypass the limit.
		tooMuch := 100.01
		_, err = f.svc.UpdateTransaction(ctx, f.userID, tx.ID, dto.TransactionUpdate{Amount: &tooMuch})
		var ife *domainledger.InsufficientFundsError
		require.ErrorAs(t, err, &ife)
		assert.Equal(t, 100.0, ife.Available)
		assert.Equal(t, 0.0, f.uow.AccountBalance(acc.ID), "failed edit must leave no partial state")
	})

	t.Run("moving a transaction between accounts reverses and reapplies", func(t *testing.T) {
		f := newFixture(t)
		first := f.bank(t, 100)
		second := f.bank(t, 100)
		tx, err := f.create(t, dto.TransactionCreate{Amount: 40, Type: "EXPENSE", AccountID: first.ID})
		require.NoError(t, err)

		_, err = f.svc.UpdateTransaction(ctx, f.userID, tx.ID, dto.TransactionUpdate{AccountID: &second.ID})
		require.NoError(t, err)
		assert.Equal(t, 100.0, f.uow.AccountBalance(first.ID))
		assert.Equal(t, 60.0, f.uow.AccountBalance(second.ID))
	})

	t.Run("retyping an expense into a transfer adjusts both legs", func(t *testing.T) {
		f := newFixture(t)
		src := f.bank(t, 100)
		dst := f.bank(t, 0)
		tx, err := f.create(t, dto.TransactionCreate{Amount: 25, Type: "EXPENSE", AccountID: src.ID})
		require.NoError(t, err)

		transfer := "TRANSFER"
		_, err = f.svc.UpdateTransaction(ctx, f.userID, tx.ID, dto.TransactionUpdate{
			Type: &transfer, DestinationID: &dst.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 75.0, f.uow.AccountBalance(src.ID))
		assert.Equal(t, 25.0, f.uow.AccountBalance(dst.ID))
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newFixture(t)
		amount := 10.0
		_, err := f.svc.UpdateTransaction(ctx, f.userID, uuid.New(), dto.TransactionUpdate{Amount: &amount})
		assert.ErrorIs(t, err, domainledger.ErrTransactionNotFound)
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delete reverses a transfer on both legs", func(t *testing.T) {
		f := newFixture(t)
		src := f.bank(t, 100)
		dst := f.bank(t, 10)
		tx, err := f.create(t, dto.TransactionCreate{
			Amount: 40, Type: "TRANSFER", AccountID: src.ID, DestinationID: &dst.ID,
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteTransaction(ctx, f.userID, tx.ID))
		assert.Equal(t, 100.0, f.uow.AccountBalance(src.ID))
		assert.Equal(t, 10.0, f.uow.AccountBalance(dst.ID))
		assert.Equal(t, 0, f.uow.TransactionCount())
	})

	t.Run("delete of a foreign transaction is a not-found", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		tx, err := f.create(t, dto.TransactionCreate{Amount: 10, Type: "EXPENSE", AccountID: acc.ID})
		require.NoError(t, err)

		err = f.svc.DeleteTransaction(ctx, uuid.New(), tx.ID)
		assert.ErrorIs(t, err, domainledger.ErrTransactionNotFound)
		assert.Equal(t, 90.0, f.uow.AccountBalance(acc.ID))
	})
}

func TestAdjustBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("upward adjustment synthesizes an income", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		tx, err := f.svc.AdjustBalance(ctx, f.userID, acc.ID, 150)
		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, domainledger.TypeIncome, tx.Type)
		assert.Equal(t, 50.0, tx.Amount)
		assert.Equal(t, 150.0, f.uow.AccountBalance(acc.ID))
	})

	t.Run("downward adjustment synthesizes an expense", func(t *testing.T) {
		f := newFixture(t)
		acc := f.credit(t, -500, 10000)
		tx, err := f.svc.AdjustBalance(ctx, f.userID, acc.ID, -750)
		require.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, domainledger.TypeExpense, tx.Type)
		assert.Equal(t, 250.0, tx.Amount)
		assert.Equal(t, -750.0, f.uow.AccountBalance(acc.ID))
	})

	t.Run("no-op within tolerance", func(t *testing.T) {
		f := newFixture(t)
		acc := f.bank(t, 100)
		tx, err := f.svc.AdjustBalance(ctx, f.userID, acc.ID, 100.0001)
		require.NoError(t, err)
		assert.Nil(t, tx)
		assert.Equal(t, 0, f.uow.TransactionCount())
	})
}

// TestConcurrentExpenses submits two concurrent expenses of 80 against a
// balance of 100: exactly one must succeed and one must be rejected.
func TestConcurrentExpenses(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	acc := f.bank(t, 100)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.create(t, dto.TransactionCreate{
				Amount: 80, Type: "EXPENSE", AccountID: acc.ID,
			})
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var ife *domainledger.InsufficientFundsError
		require.ErrorAs(t, err, &ife)
		assert.Equal(t, domainledger.CodeInsufficientBalance, ife.Code)
		rejections++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
	assert.Equal(t, 20.0, f.uow.AccountBalance(acc.ID))
}

// TestReplayNoDrift runs a long randomized mix of creates, edits and
// deletes through the service and verifies the stored balances equal an
// independent replay of the surviving transactions over the opening
// balances.
func TestReplayNoDrift(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	f := newFixture(t)
	src := f.bank(t, 10000)
	dst := f.bank(t, 10000)

	live := map[uuid.UUID]*domainledger.Transaction{}
	for i := 0; i < 150; i++ {
		amount := money.RoundDefault(rng.Float64()*50 + 0.01)
		var err error
		var tx *domainledger.Transaction
		switch rng.Intn(3) {
		case 0:
			tx, err = f.create(t, dto.TransactionCreate{Amount: amount, Type: "INCOME", AccountID: src.ID})
		case 1:
			tx, err = f.create(t, dto.TransactionCreate{Amount: amount, Type: "EXPENSE", AccountID: src.ID})
		default:
			tx, err = f.create(t, dto.TransactionCreate{
				Amount: amount, Type: "TRANSFER", AccountID: src.ID, DestinationID: &dst.ID,
			})
		}
		require.NoError(t, err)
		live[tx.ID] = tx

		// Occasionally edit or delete an earlier transaction.
		if i%7 == 3 {
			for id := range live {
				if rng.Intn(2) == 0 {
					newAmount := money.RoundDefault(rng.Float64()*50 + 0.01)
					edited, err := f.svc.UpdateTransaction(ctx, f.userID, id, dto.TransactionUpdate{Amount: &newAmount})
					require.NoError(t, err)
					live[id] = edited
				} else {
					require.NoError(t, f.svc.DeleteTransaction(ctx, f.userID, id))
					delete(live, id)
				}
				break
			}
		}
	}

	expected := domainledger.Balances{src.ID: 10000, dst.ID: 10000}
	for _, tx := range live {
		expected.Apply(domainledger.Deltas(tx))
	}
	assert.True(t, money.ApproximatelyEqual(expected[src.ID], f.uow.AccountBalance(src.ID)),
		"source drifted: want %v got %v", expected[src.ID], f.uow.AccountBalance(src.ID))
	assert.True(t, money.ApproximatelyEqual(expected[dst.ID], f.uow.AccountBalance(dst.ID)),
		"destination drifted: want %v got %v", expected[dst.ID], f.uow.AccountBalance(dst.ID))
}
