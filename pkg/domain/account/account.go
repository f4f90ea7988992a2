// Package account holds the account aggregate and the balance sign
// convention every other component reads through.
//
// Sign convention:
//   - BANK and CASH balances are the spendable amount. Any sign is
//     allowed; a negative balance is an overdraft (a liability).
//   - CREDIT balances are inverted: negative = amount owed, positive =
//     overpayment (a credit), zero = settled.
//
// The inversion is the single most error-prone invariant in the system.
// Never re-derive it at a call site; go through CreditCardStatus,
// OutstandingToBalance and BalanceToOutstanding.
package account

import (
	"errors"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found or
	// is not owned by the caller.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotOwner is returned when a user acts on an account they do not own.
	ErrNotOwner = errors.New("not owner")

	// ErrUnknownAccountType is returned when an account type is not one
	// of BANK, CASH or CREDIT.
	ErrUnknownAccountType = errors.New("unknown account type")

	// ErrNotCreditAccount is returned when a credit-only operation, such
	// as linking to a shared credit limit, targets a BANK or CASH account.
	ErrNotCreditAccount = errors.New("not a credit account")

	// ErrAccountArchived is returned when a mutation targets an archived account.
	ErrAccountArchived = errors.New("account is archived")
)

// Type is the tagged account variant. Adding a type is a one-place
// change here; every calculator dispatches on it exactly once.
type Type string

const (
	TypeBank   Type = "BANK"
	TypeCash   Type = "CASH"
	TypeCredit Type = "CREDIT"
)

// Valid reports whether t is a known account type.
func (t Type) Valid() bool {
	switch t {
	case TypeBank, TypeCash, TypeCredit:
		return true
	}
	return false
}

// IsCredit reports whether the type uses the inverted balance convention.
func (t Type) IsCredit() bool { return t == TypeCredit }

// Account is a user's financial account. Balance follows the package
// sign convention. CreditLimit and the billing fields are only
// meaningful for CREDIT accounts; SharedLimitID links the account into
// a shared credit limit pool, in which case its own CreditLimit is
// ignored by all pool math.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	Type           Type
	Balance        float64
	Currency       string
	CreditLimit    float64
	SharedLimitID  *uuid.UUID
	BillingDay     int // day of month, 1-31, 0 = unset
	DueDay         int // day of month, 1-31, 0 = unset
	AlertEnabled   bool
	AlertThreshold float64 // utilization percent
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Builder provides a fluent API for constructing Account instances,
// validating invariants before the account is handed out.
type Builder struct {
	id             uuid.UUID
	userID         uuid.UUID
	name           string
	accountType    Type
	balance        float64
	currency       string
	creditLimit    float64
	sharedLimitID  *uuid.UUID
	billingDay     int
	dueDay         int
	alertEnabled   bool
	alertThreshold float64
	archived       bool
	createdAt      time.Time
	updatedAt      time.Time
}

// New creates a Builder with a fresh ID and BANK defaults.
func New() *Builder {
	return &Builder{
		id:          uuid.New(),
		accountType: TypeBank,
		currency:    "USD",
		createdAt:   time.Now(),
	}
}

func (b *Builder) WithID(id uuid.UUID) *Builder          { b.id = id; return b }
func (b *Builder) WithUserID(userID uuid.UUID) *Builder  { b.userID = userID; return b }
func (b *Builder) WithName(name string) *Builder         { b.name = name; return b }
func (b *Builder) WithType(t Type) *Builder              { b.accountType = t; return b }
func (b *Builder) WithCurrency(currency string) *Builder { b.currency = currency; return b }
func (b *Builder) WithArchived(archived bool) *Builder   { b.archived = archived; return b }

// WithBalance sets the stored balance, already in the package sign
// convention. Used for hydration from a data store and test setup.
func (b *Builder) WithBalance(balance float64) *Builder {
	b.balance = balance
	return b
}

func (b *Builder) WithCreditLimit(limit float64) *Builder {
	b.creditLimit = limit
	return b
}

func (b *Builder) WithSharedLimit(id uuid.UUID) *Builder {
	b.sharedLimitID = &id
	return b
}

func (b *Builder) WithBillingCycle(billingDay, dueDay int) *Builder {
	b.billingDay = billingDay
	b.dueDay = dueDay
	return b
}

func (b *Builder) WithUtilizationAlert(threshold float64) *Builder {
	b.alertEnabled = true
	b.alertThreshold = threshold
	return b
}

func (b *Builder) WithCreatedAt(t time.Time) *Builder { b.createdAt = t; return b }
func (b *Builder) WithUpdatedAt(t time.Time) *Builder { b.updatedAt = t; return b }

// Build validates invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if !b.accountType.Valid() {
		return nil, ErrUnknownAccountType
	}
	if b.sharedLimitID != nil && !b.accountType.IsCredit() {
		return nil, ErrNotCreditAccount
	}
	if err := validateCycleDay(b.billingDay); err != nil {
		return nil, err
	}
	if err := validateCycleDay(b.dueDay); err != nil {
		return nil, err
	}
	return &Account{
		ID:             b.id,
		UserID:         b.userID,
		Name:           b.name,
		Type:           b.accountType,
		Balance:        money.RoundDefault(money.ToAmount(b.balance)),
		Currency:       b.currency,
		CreditLimit:    money.RoundDefault(money.ToAmount(b.creditLimit)),
		SharedLimitID:  b.sharedLimitID,
		BillingDay:     b.billingDay,
		DueDay:         b.dueDay,
		AlertEnabled:   b.alertEnabled,
		AlertThreshold: b.alertThreshold,
		Archived:       b.archived,
		CreatedAt:      b.createdAt,
		UpdatedAt:      b.updatedAt,
	}, nil
}

var errCycleDayOutOfRange = errors.New("billing cycle day must be between 1 and 31")

func validateCycleDay(day int) error {
	if day < 0 || day > 31 {
		return errCycleDayOutOfRange
	}
	return nil
}

// validate checks ownership (common validation logic).
func (a *Account) validate(userID uuid.UUID) error {
	if a.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

// ValidateMutation checks the invariants common to every balance
// mutation on the account: ownership and not archived.
func (a *Account) ValidateMutation(userID uuid.UUID) error {
	if err := a.validate(userID); err != nil {
		return err
	}
	if a.Archived {
		return ErrAccountArchived
	}
	return nil
}

// IsPooled reports whether the account is linked to a shared credit
// limit. While linked, its own CreditLimit is ignored.
func (a *Account) IsPooled() bool {
	return a.Type.IsCredit() && a.SharedLimitID != nil
}
