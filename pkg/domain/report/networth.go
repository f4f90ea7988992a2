// Package report derives read-only aggregates from account balances.
// It contains no state of its own; bugs here can only be sign-convention
// bugs, which is why it reads balances strictly through the account
// package's convention.
package report

import (
	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/money"
)

// NetWorth partitions account balances into assets and liabilities.
type NetWorth struct {
	TotalAssets      float64
	TotalLiabilities float64
	NetWorth         float64
}

// CalculateNetWorth sums assets and liabilities across the given
// accounts. Archived accounts are skipped. BANK/CASH balances count
// directly (negative = overdraft, a liability); CREDIT balances use the
// inverted convention (negative = debt). Order-independent.
func CalculateNetWorth(accounts []*account.Account) NetWorth {
	var assets, liabilities float64
	for _, a := range accounts {
		if a.Archived {
			continue
		}
		bal := money.RoundDefault(money.ToAmount(a.Balance))
		if a.Type.IsCredit() {
			st := account.CreditCardStatus(bal, a.CreditLimit)
			assets += st.CreditBalance
			liabilities += st.Outstanding
			continue
		}
		if bal < 0 {
			liabilities += -bal
		} else {
			assets += bal
		}
	}
	assets = money.RoundDefault(assets)
	liabilities = money.RoundDefault(liabilities)
	return NetWorth{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         money.RoundDefault(assets - liabilities),
	}
}
