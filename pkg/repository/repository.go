// Package repository defines the data access contracts the services
// depend on. Implementations live in infra/repository; tests substitute
// in-memory fakes.
package repository

import (
	"context"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/google/uuid"
)

// AccountRepository defines account data access. All reads are scoped
// by owner; a row owned by another user behaves as absent.
type AccountRepository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	// ListBySharedLimit returns every member of a shared credit limit
	// pool. Within a unit of work the members are read in the same
	// consistency snapshot as the mutation being validated.
	ListBySharedLimit(ctx context.Context, userID, limitID uuid.UUID) ([]*account.Account, error)
	Create(ctx context.Context, a *account.Account) error
	Update(ctx context.Context, a *account.Account) error
	// UpdateBalance writes a new stored balance for the account. Callers
	// must only invoke it inside the same unit of work that validated
	// the mutation.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error
}

// TransactionRepository defines transaction data access.
type TransactionRepository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*ledger.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*ledger.Transaction, error)
	Create(ctx context.Context, tx *ledger.Transaction) error
	Update(ctx context.Context, tx *ledger.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SharedLimitRepository defines shared credit limit pool data access.
type SharedLimitRepository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*account.SharedLimit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.SharedLimit, error)
	Create(ctx context.Context, l *account.SharedLimit) error
	Update(ctx context.Context, l *account.SharedLimit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository defines category data access.
type CategoryRepository interface {
	Get(ctx context.Context, userID, id uuid.UUID) (*category.Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
	Create(ctx context.Context, c *category.Category) error
	Update(ctx context.Context, c *category.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
