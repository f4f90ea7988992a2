package dto

import (
	"time"

	"github.com/google/uuid"
)

// AccountCreate is a DTO for creating a new account.
type AccountCreate struct {
	UserID         uuid.UUID
	Name           string
	Type           string
	Balance        float64 // opening balance, stored sign convention
	Currency       string
	CreditLimit    float64
	SharedLimitID  *uuid.UUID
	BillingDay     int
	DueDay         int
	AlertEnabled   bool
	AlertThreshold float64
}

// AccountUpdate is a DTO for updating one or more account fields.
// Balance is deliberately absent: balances change only through the
// ledger engine or the balance adjustment operation.
type AccountUpdate struct {
	Name           *string
	CreditLimit    *float64
	SharedLimitID  *uuid.UUID
	UnlinkShared   bool
	BillingDay     *int
	DueDay         *int
	AlertEnabled   *bool
	AlertThreshold *float64
	Archived       *bool
}

// AccountRead is a read-optimized DTO for account queries and API responses.
type AccountRead struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Balance        float64    `json:"balance"`
	Currency       string     `json:"currency"`
	CreditLimit    float64    `json:"credit_limit,omitempty"`
	SharedLimitID  *uuid.UUID `json:"shared_limit_id,omitempty"`
	BillingDay     int        `json:"billing_day,omitempty"`
	DueDay         int        `json:"due_day,omitempty"`
	AlertEnabled   bool       `json:"alert_enabled"`
	AlertThreshold float64    `json:"alert_threshold,omitempty"`
	Archived       bool       `json:"archived"`
	CreatedAt      time.Time  `json:"created_at"`
}
