package ledger

import (
	"fmt"
	"math"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/google/uuid"
)

// Machine-readable rejection codes carried by InsufficientFundsError.
const (
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeInsufficientCredit  = "INSUFFICIENT_CREDIT"
)

// InsufficientFundsError is a rejected admissibility check. It carries
// the exact numbers so a caller can render them; never a bare string.
type InsufficientFundsError struct {
	Code      string
	Available float64
	Required  float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: required %.2f, available %.2f", e.Code, e.Required, e.Available)
}

// Delta is a signed balance change to apply to one account.
type Delta struct {
	AccountID uuid.UUID
	Amount    float64
}

// BalanceChange returns the signed effect of a transaction on its
// source account: +|amount| for income, -|amount| for expense, 0 for a
// transfer considered as a whole (transfers are two deltas, one per leg).
func BalanceChange(amount float64, t Type) float64 {
	a := money.RoundDefault(math.Abs(money.ToAmount(amount)))
	switch t {
	case TypeIncome:
		return a
	case TypeExpense:
		return -a
	default:
		return 0
	}
}

// Deltas returns the balance changes applying tx entails, in source
// then destination order.
func Deltas(tx *Transaction) []Delta {
	amount := money.RoundDefault(math.Abs(money.ToAmount(tx.Amount)))
	switch tx.Type {
	case TypeIncome:
		return []Delta{{AccountID: tx.AccountID, Amount: amount}}
	case TypeExpense:
		return []Delta{{AccountID: tx.AccountID, Amount: -amount}}
	case TypeTransfer:
		deltas := []Delta{{AccountID: tx.AccountID, Amount: -amount}}
		if tx.DestinationID != nil {
			deltas = append(deltas, Delta{AccountID: *tx.DestinationID, Amount: amount})
		}
		return deltas
	}
	return nil
}

// ReversalDeltas returns the exact inverse of Deltas(tx): applying both
// leaves every touched balance unchanged. This is step (a) of the edit
// protocol: as if the old transaction never happened.
func ReversalDeltas(tx *Transaction) []Delta {
	deltas := Deltas(tx)
	for i := range deltas {
		deltas[i].Amount = -deltas[i].Amount
	}
	return deltas
}

// Balances is a mutable snapshot of account balances keyed by account
// ID. The service loads it from the store inside the unit of work,
// threads it through reversal and validation, and writes it back.
type Balances map[uuid.UUID]float64

// Apply folds deltas into the snapshot, rounding after each step so
// float drift cannot accumulate across many mutations.
func (b Balances) Apply(deltas []Delta) {
	for _, d := range deltas {
		b[d.AccountID] = money.RoundDefault(b[d.AccountID] + d.Amount)
	}
}

// SpendSource describes the account a spend is validated against, with
// its balance and pool context read from the same snapshot as the
// mutation. For a pool-linked credit account, PoolLimit and
// PoolBalances must cover every member of the pool (including the
// account itself).
type SpendSource struct {
	Account      *account.Account
	Balance      float64
	PoolLimit    float64
	PoolBalances []float64
}

// AvailableFor returns the amount the source can still spend: the
// pool-aware available credit for CREDIT accounts, the plain balance
// otherwise.
func (s SpendSource) AvailableFor() float64 {
	if s.Account.Type.IsCredit() {
		if s.Account.IsPooled() {
			return account.AvailableCredit(s.Account, s.PoolLimit, s.PoolBalances)
		}
		return account.CreditCardStatus(s.Balance, s.Account.CreditLimit).AvailableCredit
	}
	return money.RoundDefault(s.Balance)
}

// CheckSpend enforces the admissibility rule for an expense or the
// source leg of a transfer: a CREDIT account may not exceed its
// available credit, any other account may not spend more than its
// balance. Income and the destination leg of a transfer are always
// admissible.
func CheckSpend(src SpendSource, amount float64) error {
	required := money.RoundDefault(math.Abs(money.ToAmount(amount)))
	available := src.AvailableFor()
	if required <= available {
		return nil
	}
	code := CodeInsufficientBalance
	if src.Account.Type.IsCredit() {
		code = CodeInsufficientCredit
	}
	return &InsufficientFundsError{
		Code:      code,
		Available: available,
		Required:  required,
	}
}

// Spends reports whether applying tx debits its source account, i.e.
// whether an admissibility check is needed at all.
func Spends(tx *Transaction) bool {
	return tx.Type == TypeExpense || tx.Type == TypeTransfer
}
