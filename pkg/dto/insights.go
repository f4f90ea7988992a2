package dto

import (
	"github.com/google/uuid"
)

// CreditStatusRead is the user-facing view of one credit account.
// AvailableCredit is pool-aware: for a pool-linked account it reflects
// the shared limit and every member's balance.
type CreditStatusRead struct {
	AccountID        uuid.UUID  `json:"account_id"`
	Name             string     `json:"name"`
	Outstanding      float64    `json:"outstanding"`
	CreditBalance    float64    `json:"credit_balance"`
	HasCredit        bool       `json:"has_credit"`
	AvailableCredit  float64    `json:"available_credit"`
	Utilization      float64    `json:"utilization"`
	UtilizationLevel string     `json:"utilization_level"`
	SharedLimitID    *uuid.UUID `json:"shared_limit_id,omitempty"`
	DueDay           int        `json:"due_day,omitempty"`
	DaysUntilDue     int        `json:"days_until_due"`
	DueSoon          bool       `json:"due_soon"`
}

// NetWorthRead is the asset/liability partition across all active accounts.
type NetWorthRead struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalLiabilities float64 `json:"total_liabilities"`
	NetWorth         float64 `json:"net_worth"`
}

// DashboardRead is the single-call read model backing the home screen.
type DashboardRead struct {
	NetWorth NetWorthRead        `json:"net_worth"`
	Accounts []*AccountRead      `json:"accounts"`
	Credit   []*CreditStatusRead `json:"credit"`
	Pools    []*SharedLimitRead  `json:"pools"`
}
