// Package ledger provides the transactional business operations that
// mutate account balances: recording, editing and deleting transactions
// and reconciling a manually corrected balance.
//
// Every mutation runs inside one unit of work: balances are read,
// validated and written in a single atomic boundary, so concurrent
// mutations on the same account are serialized and each re-validates
// against the post-previous balance.
package ledger

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
)

// Service implements the ledger mutation protocol on top of a UnitOfWork.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a ledger Service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateTransaction validates and records a new transaction, applying
// its balance deltas in the same atomic unit.
func (s *Service) CreateTransaction(
	ctx context.Context,
	create dto.TransactionCreate,
) (tx *ledger.Transaction, err error) {
	logger := s.logger.With(
		"op", "CreateTransaction",
		"userID", create.UserID,
		"accountID", create.AccountID,
		"type", create.Type,
	)

	tx = &ledger.Transaction{
		ID:            uuid.New(),
		UserID:        create.UserID,
		Amount:        money.RoundDefault(money.ToAmount(create.Amount)),
		Type:          ledger.Type(create.Type),
		AccountID:     create.AccountID,
		DestinationID: create.DestinationID,
		CategoryID:    create.CategoryID,
		Date:          create.Date,
		Note:          create.Note,
		CreatedAt:     time.Now(),
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if err = tx.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := s.loadAccounts(ctx, uow, tx.UserID, touchedAccounts(tx))
		if err != nil {
			return err
		}
		if err := s.checkCategory(ctx, uow, tx); err != nil {
			return err
		}

		balances := snapshot(accounts)
		if ledger.Spends(tx) {
			src, err := s.spendSource(ctx, uow, accounts[tx.AccountID], balances)
			if err != nil {
				return err
			}
			if err := ledger.CheckSpend(src, tx.Amount); err != nil {
				return err
			}
		}
		balances.Apply(ledger.Deltas(tx))

		if err := writeBalances(ctx, uow, balances); err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return txRepo.Create(ctx, tx)
	})
	if err != nil {
		logger.Error("transaction rejected", "error", err)
		return nil, err
	}
	logger.Info("transaction recorded", "transactionID", tx.ID, "amount", tx.Amount)
	return tx, nil
}

// UpdateTransaction edits an existing transaction. The original's
// effect is reversed first, the edited transaction is validated against
// the reverted balances, and its deltas are applied, all inside one
// atomic unit, so an edit can never transiently bypass a limit.
func (s *Service) UpdateTransaction(
	ctx context.Context,
	userID, txID uuid.UUID,
	update dto.TransactionUpdate,
) (updated *ledger.Transaction, err error) {
	logger := s.logger.With("op", "UpdateTransaction", "userID", userID, "transactionID", txID)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		old, err := txRepo.Get(ctx, userID, txID)
		if err != nil {
			return err
		}

		next := merge(old, update)
		if err := next.Validate(); err != nil {
			return err
		}
		if err := s.checkCategory(ctx, uow, next); err != nil {
			return err
		}

		ids := append(touchedAccounts(old), touchedAccounts(next)...)
		accounts, err := s.loadAccounts(ctx, uow, userID, ids)
		if err != nil {
			return err
		}

		// Step (a): revert the original, as if it never happened.
		balances := snapshot(accounts)
		balances.Apply(ledger.ReversalDeltas(old))

		// Step (b): validate the edit against the reverted balances.
		// When the source account is unchanged this nets the old effect
		// back into one adjusted available figure.
		if ledger.Spends(next) {
			src, err := s.spendSource(ctx, uow, accounts[next.AccountID], balances)
			if err != nil {
				return err
			}
			if err := ledger.CheckSpend(src, next.Amount); err != nil {
				return err
			}
		}

		// Step (c): apply the edited transaction.
		balances.Apply(ledger.Deltas(next))

		if err := writeBalances(ctx, uow, balances); err != nil {
			return err
		}
		if err := txRepo.Update(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		logger.Error("edit rejected", "error", err)
		return nil, err
	}
	logger.Info("transaction updated", "amount", updated.Amount, "type", updated.Type)
	return updated, nil
}

// DeleteTransaction removes a transaction, reversing its balance effect
// in the same atomic unit. Deletion is edit-to-nothing: only the
// reversal step applies.
func (s *Service) DeleteTransaction(ctx context.Context, userID, txID uuid.UUID) error {
	logger := s.logger.With("op", "DeleteTransaction", "userID", userID, "transactionID", txID)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		old, err := txRepo.Get(ctx, userID, txID)
		if err != nil {
			return err
		}
		accounts, err := s.loadAccounts(ctx, uow, userID, touchedAccounts(old))
		if err != nil {
			return err
		}
		balances := snapshot(accounts)
		balances.Apply(ledger.ReversalDeltas(old))

		if err := writeBalances(ctx, uow, balances); err != nil {
			return err
		}
		return txRepo.Delete(ctx, old.ID)
	})
	if err != nil {
		logger.Error("delete rejected", "error", err)
		return err
	}
	logger.Info("transaction deleted")
	return nil
}

// AdjustBalance reconciles a manually corrected balance by synthesizing
// an INCOME or EXPENSE transaction for the difference. The target
// balance is taken as the user's ground truth, so no admissibility
// check applies. Returns nil without writing when the difference is
// within tolerance.
func (s *Service) AdjustBalance(
	ctx context.Context,
	userID, accountID uuid.UUID,
	targetBalance float64,
) (tx *ledger.Transaction, err error) {
	logger := s.logger.With("op", "AdjustBalance", "userID", userID, "accountID", accountID)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accRepo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accRepo.Get(ctx, userID, accountID)
		if err != nil {
			return err
		}
		if err := acct.ValidateMutation(userID); err != nil {
			return err
		}

		target := money.RoundDefault(money.ToAmount(targetBalance))
		if money.ApproximatelyEqual(target, acct.Balance) {
			return nil
		}
		delta := money.RoundDefault(target - acct.Balance)

		txType := ledger.TypeIncome
		if delta < 0 {
			txType = ledger.TypeExpense
		}
		tx = &ledger.Transaction{
			ID:        uuid.New(),
			UserID:    userID,
			Amount:    money.RoundDefault(math.Abs(delta)),
			Type:      txType,
			AccountID: accountID,
			Date:      time.Now(),
			Note:      "Balance adjustment",
			CreatedAt: time.Now(),
		}
		if err := accRepo.UpdateBalance(ctx, accountID, target); err != nil {
			return err
		}
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return txRepo.Create(ctx, tx)
	})
	if err != nil {
		logger.Error("adjustment rejected", "error", err)
		return nil, err
	}
	if tx == nil {
		logger.Info("adjustment skipped, balance already matches")
		return nil, nil
	}
	logger.Info("balance adjusted", "transactionID", tx.ID, "amount", tx.Amount, "type", tx.Type)
	return tx, nil
}

// GetTransaction returns one transaction owned by the user.
func (s *Service) GetTransaction(ctx context.Context, userID, txID uuid.UUID) (*ledger.Transaction, error) {
	var tx *ledger.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = txRepo.Get(ctx, userID, txID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// ListTransactions returns the user's transactions mapped to the
// reporting DTO. DisplayAmount carries the reporting sign convention
// (income positive, expense and transfer negative), independent of the
// stored balance convention.
func (s *Service) ListTransactions(
	ctx context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
) ([]*dto.TransactionRead, error) {
	var txs []*ledger.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = txRepo.List(ctx, userID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	result := make([]*dto.TransactionRead, 0, len(txs))
	for _, tx := range txs {
		result = append(result, MapTransactionToRead(tx))
	}
	return result, nil
}

// MapTransactionToRead maps a ledger transaction to its read DTO,
// applying the reporting sign convention to DisplayAmount.
func MapTransactionToRead(tx *ledger.Transaction) *dto.TransactionRead {
	display := tx.Amount
	if tx.Type != ledger.TypeIncome {
		display = -tx.Amount
	}
	return &dto.TransactionRead{
		ID:            tx.ID,
		Amount:        tx.Amount,
		DisplayAmount: display,
		Type:          string(tx.Type),
		AccountID:     tx.AccountID,
		DestinationID: tx.DestinationID,
		CategoryID:    tx.CategoryID,
		Date:          tx.Date,
		Note:          tx.Note,
		CreatedAt:     tx.CreatedAt,
	}
}

// merge builds the edited transaction from the original and the update,
// keeping unset fields.
func merge(old *ledger.Transaction, update dto.TransactionUpdate) *ledger.Transaction {
	next := *old
	if update.Amount != nil {
		next.Amount = money.RoundDefault(money.ToAmount(*update.Amount))
	}
	if update.Type != nil {
		next.Type = ledger.Type(*update.Type)
	}
	if update.AccountID != nil {
		next.AccountID = *update.AccountID
	}
	if update.DestinationID != nil {
		next.DestinationID = update.DestinationID
	}
	if next.Type != ledger.TypeTransfer {
		next.DestinationID = nil
	}
	if update.ClearCategory {
		next.CategoryID = nil
	} else if update.CategoryID != nil {
		next.CategoryID = update.CategoryID
	}
	if update.Date != nil {
		next.Date = *update.Date
	}
	if update.Note != nil {
		next.Note = *update.Note
	}
	next.UpdatedAt = time.Now()
	return &next
}

// touchedAccounts lists the account IDs whose balances tx moves.
func touchedAccounts(tx *ledger.Transaction) []uuid.UUID {
	ids := []uuid.UUID{tx.AccountID}
	if tx.Type == ledger.TypeTransfer && tx.DestinationID != nil {
		ids = append(ids, *tx.DestinationID)
	}
	return ids
}

// loadAccounts fetches the given accounts (deduplicated) inside the
// unit of work and checks each one is mutable by the user. An absent or
// foreign account fails the whole operation before any write.
func (s *Service) loadAccounts(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	ids []uuid.UUID,
) (map[uuid.UUID]*account.Account, error) {
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	accounts := make(map[uuid.UUID]*account.Account, len(ids))
	for _, id := range ids {
		if _, ok := accounts[id]; ok {
			continue
		}
		acct, err := accRepo.Get(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if err := acct.ValidateMutation(userID); err != nil {
			return nil, err
		}
		accounts[id] = acct
	}
	return accounts, nil
}

// checkCategory fails the operation when the transaction references a
// category that does not exist or is not owned by the user.
func (s *Service) checkCategory(ctx context.Context, uow repository.UnitOfWork, tx *ledger.Transaction) error {
	if tx.CategoryID == nil {
		return nil
	}
	catRepo, err := uow.CategoryRepository()
	if err != nil {
		return err
	}
	if _, err := catRepo.Get(ctx, tx.UserID, *tx.CategoryID); err != nil {
		return category.ErrCategoryNotFound
	}
	return nil
}

// spendSource assembles the admissibility context for the source
// account. The adjusted snapshot takes precedence over stored balances
// so that the check sees reverted figures during an edit; for a pooled
// credit account, sibling balances come from the same snapshot.
func (s *Service) spendSource(
	ctx context.Context,
	uow repository.UnitOfWork,
	src *account.Account,
	balances ledger.Balances,
) (ledger.SpendSource, error) {
	balance := src.Balance
	if b, ok := balances[src.ID]; ok {
		balance = b
	}
	source := ledger.SpendSource{Account: src, Balance: balance}
	if !src.IsPooled() {
		return source, nil
	}

	limitRepo, err := uow.SharedLimitRepository()
	if err != nil {
		return source, err
	}
	limit, err := limitRepo.Get(ctx, src.UserID, *src.SharedLimitID)
	if err != nil {
		return source, err
	}
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return source, err
	}
	members, err := accRepo.ListBySharedLimit(ctx, src.UserID, limit.ID)
	if err != nil {
		return source, err
	}
	source.PoolLimit = limit.TotalLimit
	source.PoolBalances = make([]float64, 0, len(members))
	for _, m := range members {
		bal := m.Balance
		if b, ok := balances[m.ID]; ok {
			bal = b
		}
		source.PoolBalances = append(source.PoolBalances, bal)
	}
	return source, nil
}

// snapshot copies the stored balances of the loaded accounts.
func snapshot(accounts map[uuid.UUID]*account.Account) ledger.Balances {
	balances := make(ledger.Balances, len(accounts))
	for id, a := range accounts {
		balances[id] = a.Balance
	}
	return balances
}

// writeBalances persists the mutated snapshot.
func writeBalances(ctx context.Context, uow repository.UnitOfWork, balances ledger.Balances) error {
	accRepo, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	for id, balance := range balances {
		if err := accRepo.UpdateBalance(ctx, id, balance); err != nil {
			return err
		}
	}
	return nil
}
