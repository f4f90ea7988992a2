package account

import "github.com/aaveggupta/dhandiary/pkg/money"

// CreditStatus is the user-facing view of a credit account's stored
// balance, derived by CreditCardStatus. All figures are rounded.
type CreditStatus struct {
	// Outstanding is the amount owed, always >= 0.
	Outstanding float64
	// CreditBalance is the overpayment sitting on the card, always >= 0.
	CreditBalance float64
	// HasCredit reports whether the card carries an overpayment.
	HasCredit bool
	// AvailableCredit is how much can still be spent. May exceed the
	// nominal limit when the card is overpaid, and may go negative when
	// the card is over limit or the limit is zero.
	AvailableCredit float64
	// Utilization is Outstanding as a percent of the limit. Zero when
	// the card carries a credit or the limit is not positive; may
	// exceed 100 when over limit; never negative.
	Utilization float64
}

// CreditCardStatus converts a stored credit balance and limit into the
// user-facing figures. It is the one normative reading of the credit
// sign convention. All-numeric contract: degenerate input (zero limit,
// non-finite values) yields defined results, never a panic.
func CreditCardStatus(balance, creditLimit any) CreditStatus {
	bal := money.RoundDefault(money.ToAmount(balance))
	limit := money.RoundDefault(money.ToAmount(creditLimit))

	hasCredit := bal > 0
	var outstanding, creditBalance float64
	if hasCredit {
		creditBalance = bal
	} else {
		outstanding = -bal
	}

	availableCredit := money.RoundDefault(limit + bal)

	var utilization float64
	if !hasCredit && limit > 0 {
		utilization = money.RoundDefault(outstanding / limit * 100)
	}

	return CreditStatus{
		Outstanding:     outstanding,
		CreditBalance:   creditBalance,
		HasCredit:       hasCredit,
		AvailableCredit: availableCredit,
		Utilization:     utilization,
	}
}

// OutstandingToBalance converts a user-entered outstanding amount
// (positive = owed) into the stored balance convention (negative =
// owed). -0 is normalized to 0.
func OutstandingToBalance(outstanding float64) float64 {
	b := -money.ToAmount(outstanding)
	if b == 0 {
		return 0
	}
	return b
}

// BalanceToOutstanding is the inverse of OutstandingToBalance.
func BalanceToOutstanding(balance float64) float64 {
	o := -money.ToAmount(balance)
	if o == 0 {
		return 0
	}
	return o
}
