// Package ledger implements the transaction impact and validation
// engine: how a transaction mutates account balances, how those
// mutations are validated against account-type constraints, and the
// reversal math that keeps edits and deletes drift-free.
//
// Everything here is pure computation on snapshots. The persistence
// wrapper composes these pieces inside one atomic unit of work so that
// the read of current balances, the admissibility check and the write
// are indivisible with respect to other mutations on the same accounts.
package ledger

import (
	"errors"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrTransactionNotFound is returned when a transaction cannot be
	// found or is not owned by the caller.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAmountMustBePositive is returned when a transaction amount is not positive.
	ErrAmountMustBePositive = errors.New("transaction amount must be positive")

	// ErrUnknownTransactionType is returned for a type outside INCOME, EXPENSE, TRANSFER.
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrTransferNeedsDestination is returned when a transfer has no destination account.
	ErrTransferNeedsDestination = errors.New("transfer requires a destination account")

	// ErrDestinationNotAllowed is returned when a non-transfer carries a destination account.
	ErrDestinationNotAllowed = errors.New("only transfers may have a destination account")

	// ErrCannotTransferToSameAccount is returned when source and destination match.
	ErrCannotTransferToSameAccount = errors.New("cannot transfer to same account")
)

// Type is the transaction kind.
type Type string

const (
	TypeIncome   Type = "INCOME"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Transaction is one ledger entry. Amount is always stored positive;
// the sign of its effect on balances comes from Type. Every persisted
// transaction corresponds 1:1 with exactly one already-applied balance
// delta on its account(s); that correspondence is the invariant the
// engine protects.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Amount        float64
	Type          Type
	AccountID     uuid.UUID
	DestinationID *uuid.UUID // set iff Type == TypeTransfer
	CategoryID    *uuid.UUID
	Date          time.Time
	Note          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the structural invariants of the transaction. It does
// not consult account state; admissibility against balances is the
// engine's CheckSpend.
func (tx *Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrUnknownTransactionType
	}
	if money.RoundDefault(tx.Amount) <= 0 {
		return ErrAmountMustBePositive
	}
	switch tx.Type {
	case TypeTransfer:
		if tx.DestinationID == nil {
			return ErrTransferNeedsDestination
		}
		if *tx.DestinationID == tx.AccountID {
			return ErrCannotTransferToSameAccount
		}
	default:
		if tx.DestinationID != nil {
			return ErrDestinationNotAllowed
		}
	}
	return nil
}
