package account

import (
	"errors"
	"time"

	"github.com/aaveggupta/dhandiary/pkg/money"
	"github.com/google/uuid"
)

// ErrSharedLimitNotFound is returned when a shared credit limit cannot
// be found or is not owned by the caller.
var ErrSharedLimitNotFound = errors.New("shared credit limit not found")

// SharedLimit is a credit limit shared by several CREDIT accounts.
// Member accounts point back via Account.SharedLimitID; while linked,
// a member's own CreditLimit is ignored and pool math uses the group's
// combined balance against TotalLimit.
type SharedLimit struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	TotalLimit  float64
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PoolStats aggregates the member balances of a shared credit limit.
type PoolStats struct {
	// TotalOutstanding is the gross debt across members, before credits offset it.
	TotalOutstanding float64
	// TotalCredits is the sum of member overpayments.
	TotalCredits float64
	// NetOutstanding is max(0, TotalOutstanding - TotalCredits):
	// a credit on one card offsets debt on another.
	NetOutstanding float64
	// AvailableCredit is TotalLimit - NetOutstanding, rounded.
	AvailableCredit float64
	// Utilization is NetOutstanding as a percent of TotalLimit;
	// zero when the limit is not positive.
	Utilization float64
}

// PoolStatus computes pool-level figures for a shared credit limit from
// its members' stored balances.
func PoolStatus(totalLimit float64, balances []float64) PoolStats {
	limit := money.RoundDefault(money.ToAmount(totalLimit))

	var outstanding, credits float64
	for _, raw := range balances {
		bal := money.RoundDefault(money.ToAmount(raw))
		if bal < 0 {
			outstanding += -bal
		} else {
			credits += bal
		}
	}
	net := max(0, outstanding-credits)

	var utilization float64
	if limit > 0 {
		utilization = money.RoundDefault(net / limit * 100)
	}
	return PoolStats{
		TotalOutstanding: money.RoundDefault(outstanding),
		TotalCredits:     money.RoundDefault(credits),
		NetOutstanding:   money.RoundDefault(net),
		AvailableCredit:  money.RoundDefault(limit - net),
		Utilization:      utilization,
	}
}

// AvailableCredit computes how much a credit account can still spend.
// For a pool-linked account, the pool's total limit plus the signed sum
// of all member balances (which must include the account itself, read
// in the same consistency snapshot). Otherwise the account's own limit
// plus its balance, as in CreditCardStatus.
func AvailableCredit(a *Account, poolLimit float64, poolBalances []float64) float64 {
	if a.IsPooled() {
		sum := money.ToAmount(poolLimit)
		for _, bal := range poolBalances {
			sum += money.ToAmount(bal)
		}
		return money.RoundDefault(sum)
	}
	return CreditCardStatus(a.Balance, a.CreditLimit).AvailableCredit
}
