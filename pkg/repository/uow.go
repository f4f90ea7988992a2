package repository

import "context"

// UnitOfWork provides the transaction boundary and repository access in
// one abstraction. Repositories obtained through it share the same
// database session, so the read of current balances, the admissibility
// check and the writes of transaction record plus balances are
// indivisible with respect to other mutations on the same accounts.
//
// Implementations must serialize concurrent mutations touching the same
// account: each mutation is re-validated against the post-previous
// balance, never a stale read. Serialization conflicts are retried
// transparently inside Do.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an
	// error the transaction is rolled back and no partial state remains.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	SharedLimitRepository() (SharedLimitRepository, error)
	CategoryRepository() (CategoryRepository, error)
}
