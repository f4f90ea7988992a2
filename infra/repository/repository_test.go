package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestAccountRepository_Get(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	db, mock := newMockDB(t)

	repo := accountRepository{db: db}
	userID := uuid.New()
	accountID := uuid.New()
	limitID := uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "name", "type", "balance", "currency",
		"credit_limit", "shared_limit_id", "billing_day", "due_day",
		"alert_enabled", "alert_threshold", "archived", "created_at", "updated_at",
	}).AddRow(
		accountID, userID, "Visa", "CREDIT", -850.0, "USD",
		5000.0, limitID, 1, 15,
		true, 30.0, false, time.Now().UTC(), time.Now().UTC(),
	)
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(accountID, userID, 1).
		WillReturnRows(rows)

	a, err := repo.Get(context.Background(), userID, accountID)
	require.NoError(err)
	assert.Equal(account.TypeCredit, a.Type)
	assert.InDelta(-850.0, a.Balance, 1e-9)
	require.NotNil(a.SharedLimitID)
	assert.Equal(limitID, *a.SharedLimitID)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err = repo.Get(context.Background(), userID, uuid.New())
	require.ErrorIs(err, account.ErrAccountNotFound)
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)

	repo := accountRepository{db: db}
	accountID := uuid.New()

	mock.ExpectExec(`UPDATE "accounts" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(repo.UpdateBalance(context.Background(), accountID, 1234.56))

	mock.ExpectExec(`UPDATE "accounts" SET .+ WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateBalance(context.Background(), uuid.New(), 1.0)
	require.ErrorIs(err, account.ErrAccountNotFound)
}

func TestTransactionRepository_Create(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)

	repo := transactionRepository{db: db}
	tx := &ledger.Transaction{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		AccountID: uuid.New(),
		Amount:    42.50,
		Type:      ledger.TypeExpense,
		Date:      time.Now(),
	}

	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(repo.Create(context.Background(), tx))

	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnError(errors.New("create error"))

	require.Error(repo.Create(context.Background(), tx))
}

func TestTransactionRepository_GetNotFound(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)

	repo := transactionRepository{db: db}

	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(err, ledger.ErrTransactionNotFound)
}

func TestSharedLimitRepository_GetNotFound(t *testing.T) {
	require := require.New(t)
	db, mock := newMockDB(t)

	repo := sharedLimitRepository{db: db}

	mock.ExpectQuery(`SELECT \* FROM "shared_limits" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.Get(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(err, account.ErrSharedLimitNotFound)
}
