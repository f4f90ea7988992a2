// Package testutils provides shared test doubles, most importantly an
// in-memory UnitOfWork with the same serialization and rollback
// guarantees the gorm implementation gives the services: mutations on
// the store are serialized, and a failed unit leaves no partial state.
package testutils

import (
	"context"
	"sort"
	"sync"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
)

type memStore struct {
	accounts     map[uuid.UUID]account.Account
	transactions map[uuid.UUID]ledger.Transaction
	limits       map[uuid.UUID]account.SharedLimit
	categories   map[uuid.UUID]category.Category
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     map[uuid.UUID]account.Account{},
		transactions: map[uuid.UUID]ledger.Transaction{},
		limits:       map[uuid.UUID]account.SharedLimit{},
		categories:   map[uuid.UUID]category.Category{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.limits {
		c.limits[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	return c
}

// MemoryUoW is an in-memory repository.UnitOfWork. Do serializes
// concurrent units with a mutex and commits a staged copy of the store
// only when the unit succeeds, mirroring a serializable database
// transaction with rollback.
type MemoryUoW struct {
	mu    sync.Mutex
	store *memStore
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{store: newMemStore()}
}

// SeedAccount inserts an account directly into the store.
func (u *MemoryUoW) SeedAccount(a *account.Account) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.store.accounts[a.ID] = *a
}

// SeedSharedLimit inserts a shared credit limit directly into the store.
func (u *MemoryUoW) SeedSharedLimit(l *account.SharedLimit) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.store.limits[l.ID] = *l
}

// SeedCategory inserts a category directly into the store.
func (u *MemoryUoW) SeedCategory(c *category.Category) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.store.categories[c.ID] = *c
}

// AccountBalance reads a stored balance without going through a service.
func (u *MemoryUoW) AccountBalance(id uuid.UUID) float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.store.accounts[id].Balance
}

// TransactionCount reports how many transaction records the store holds.
func (u *MemoryUoW) TransactionCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.store.transactions)
}

// Do runs fn against a staged copy of the store, committing on success.
func (u *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	staged := u.store.clone()
	if err := fn(&memSession{store: staged}); err != nil {
		return err
	}
	u.store = staged
	return nil
}

// The top-level accessors below satisfy repository.UnitOfWork but hand
// out repositories over the committed store, outside any staged unit.
// They exist for single-goroutine seeding and assertions in tests;
// mutations that need atomicity or serialization must go through Do.

func (u *MemoryUoW) AccountRepository() (repository.AccountRepository, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &memAccountRepo{store: u.store}, nil
}

func (u *MemoryUoW) TransactionRepository() (repository.TransactionRepository, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &memTransactionRepo{store: u.store}, nil
}

func (u *MemoryUoW) SharedLimitRepository() (repository.SharedLimitRepository, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &memSharedLimitRepo{store: u.store}, nil
}

func (u *MemoryUoW) CategoryRepository() (repository.CategoryRepository, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &memCategoryRepo{store: u.store}, nil
}

// memSession is the UnitOfWork handed to fn inside Do. A nested Do runs
// in the same staged unit.
type memSession struct {
	store *memStore
}

func (s *memSession) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(s)
}

func (s *memSession) AccountRepository() (repository.AccountRepository, error) {
	return &memAccountRepo{store: s.store}, nil
}

func (s *memSession) TransactionRepository() (repository.TransactionRepository, error) {
	return &memTransactionRepo{store: s.store}, nil
}

func (s *memSession) SharedLimitRepository() (repository.SharedLimitRepository, error) {
	return &memSharedLimitRepo{store: s.store}, nil
}

func (s *memSession) CategoryRepository() (repository.CategoryRepository, error) {
	return &memCategoryRepo{store: s.store}, nil
}

type memAccountRepo struct {
	store *memStore
}

func (r *memAccountRepo) Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	a, ok := r.store.accounts[id]
	if !ok || a.UserID != userID {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

func (r *memAccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var result []*account.Account
	for _, a := range r.store.accounts {
		if a.UserID == userID {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memAccountRepo) ListBySharedLimit(ctx context.Context, userID, limitID uuid.UUID) ([]*account.Account, error) {
	var result []*account.Account
	for _, a := range r.store.accounts {
		if a.UserID == userID && a.SharedLimitID != nil && *a.SharedLimitID == limitID {
			a := a
			result = append(result, &a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memAccountRepo) Create(ctx context.Context, a *account.Account) error {
	r.store.accounts[a.ID] = *a
	return nil
}

func (r *memAccountRepo) Update(ctx context.Context, a *account.Account) error {
	if _, ok := r.store.accounts[a.ID]; !ok {
		return account.ErrAccountNotFound
	}
	r.store.accounts[a.ID] = *a
	return nil
}

func (r *memAccountRepo) UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error {
	a, ok := r.store.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	a.Balance = balance
	r.store.accounts[id] = a
	return nil
}

type memTransactionRepo struct {
	store *memStore
}

func (r *memTransactionRepo) Get(ctx context.Context, userID, id uuid.UUID) (*ledger.Transaction, error) {
	tx, ok := r.store.transactions[id]
	if !ok || tx.UserID != userID {
		return nil, ledger.ErrTransactionNotFound
	}
	return &tx, nil
}

func (r *memTransactionRepo) List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*ledger.Transaction, error) {
	var result []*ledger.Transaction
	for _, tx := range r.store.transactions {
		if tx.UserID != userID {
			continue
		}
		if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Type != nil && string(tx.Type) != *filter.Type {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.Date.After(*filter.To) {
			continue
		}
		tx := tx
		result = append(result, &tx)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *memTransactionRepo) Create(ctx context.Context, tx *ledger.Transaction) error {
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *memTransactionRepo) Update(ctx context.Context, tx *ledger.Transaction) error {
	if _, ok := r.store.transactions[tx.ID]; !ok {
		return ledger.ErrTransactionNotFound
	}
	r.store.transactions[tx.ID] = *tx
	return nil
}

func (r *memTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.transactions, id)
	return nil
}

type memSharedLimitRepo struct {
	store *memStore
}

func (r *memSharedLimitRepo) Get(ctx context.Context, userID, id uuid.UUID) (*account.SharedLimit, error) {
	l, ok := r.store.limits[id]
	if !ok || l.UserID != userID {
		return nil, account.ErrSharedLimitNotFound
	}
	return &l, nil
}

func (r *memSharedLimitRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.SharedLimit, error) {
	var result []*account.SharedLimit
	for _, l := range r.store.limits {
		if l.UserID == userID {
			l := l
			result = append(result, &l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memSharedLimitRepo) Create(ctx context.Context, l *account.SharedLimit) error {
	r.store.limits[l.ID] = *l
	return nil
}

func (r *memSharedLimitRepo) Update(ctx context.Context, l *account.SharedLimit) error {
	if _, ok := r.store.limits[l.ID]; !ok {
		return account.ErrSharedLimitNotFound
	}
	r.store.limits[l.ID] = *l
	return nil
}

func (r *memSharedLimitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.limits, id)
	return nil
}

type memCategoryRepo struct {
	store *memStore
}

func (r *memCategoryRepo) Get(ctx context.Context, userID, id uuid.UUID) (*category.Category, error) {
	c, ok := r.store.categories[id]
	if !ok || c.UserID != userID {
		return nil, category.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *memCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	var result []*category.Category
	for _, c := range r.store.categories {
		if c.UserID == userID {
			c := c
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *memCategoryRepo) Create(ctx context.Context, c *category.Category) error {
	r.store.categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) Update(ctx context.Context, c *category.Category) error {
	if _, ok := r.store.categories[c.ID]; !ok {
		return category.ErrCategoryNotFound
	}
	r.store.categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.categories, id)
	return nil
}
