package dto

import (
	"time"

	"github.com/google/uuid"
)

// TransactionCreate is a DTO for recording a new transaction.
// Amount is in the main currency unit and must be positive.
type TransactionCreate struct {
	UserID        uuid.UUID
	Amount        float64
	Type          string
	AccountID     uuid.UUID
	DestinationID *uuid.UUID
	CategoryID    *uuid.UUID
	Date          time.Time
	Note          string
}

// TransactionUpdate is a DTO for editing an existing transaction.
// Fields left nil keep their current value; the engine reverses the
// original effect and re-applies the edited one atomically.
type TransactionUpdate struct {
	Amount        *float64
	Type          *string
	AccountID     *uuid.UUID
	DestinationID *uuid.UUID
	CategoryID    *uuid.UUID
	ClearCategory bool
	Date          *time.Time
	Note          *string
}

// TransactionRead is a read-optimized DTO for transaction listings.
// DisplayAmount carries the reporting sign convention (income positive,
// expense and transfer negative), which is deliberately different from
// the stored balance sign convention.
type TransactionRead struct {
	ID            uuid.UUID  `json:"id"`
	Amount        float64    `json:"amount"`
	DisplayAmount float64    `json:"display_amount"`
	Type          string     `json:"type"`
	AccountID     uuid.UUID  `json:"account_id"`
	DestinationID *uuid.UUID `json:"destination_id,omitempty"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Date          time.Time  `json:"date"`
	Note          string     `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	AccountID  *uuid.UUID
	CategoryID *uuid.UUID
	Type       *string
	From       *time.Time
	To         *time.Time
	Limit      int
}
