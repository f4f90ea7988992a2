package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories obtained through it share the same session,
// so the balance read, the admissibility check and the writes are
// indivisible with respect to other mutations on the same accounts.
//
// Transactions run at SERIALIZABLE isolation. Two concurrent spends on
// the same account cannot both validate against the same stale balance:
// one of them aborts with a serialization failure and is retried here,
// at which point it re-reads the post-commit balance and re-validates.
type UoW struct {
	db         *gorm.DB
	tx         *gorm.DB
	maxRetries int
}

// NewUoW creates a new UoW on the given *gorm.DB. maxRetries bounds the
// transparent retries on serialization conflicts.
func NewUoW(db *gorm.DB, maxRetries int) *UoW {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &UoW{db: db, maxRetries: maxRetries}
}

// Do runs fn inside a serializable transaction, retrying fn from scratch
// when the database aborts it with a serialization or deadlock error.
// A nested Do joins the enclosing transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}

	var err error
	for attempt := 0; attempt < u.maxRetries; attempt++ {
		err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&UoW{db: u.db, tx: tx, maxRetries: u.maxRetries})
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil || !isRetryableTxError(err) {
			return err
		}
	}
	return err
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns an account repository bound to this unit's session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// TransactionRepository returns a transaction repository bound to this unit's session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	return NewTransactionRepository(u.session()), nil
}

// SharedLimitRepository returns a shared limit repository bound to this unit's session.
func (u *UoW) SharedLimitRepository() (repository.SharedLimitRepository, error) {
	return NewSharedLimitRepository(u.session()), nil
}

// CategoryRepository returns a category repository bound to this unit's session.
func (u *UoW) CategoryRepository() (repository.CategoryRepository, error) {
	return NewCategoryRepository(u.session()), nil
}

// isRetryableTxError reports whether the error is a postgres
// serialization failure or deadlock, both safe to retry with a fresh
// transaction.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	}
	return false
}
