package dto

import (
	"time"

	"github.com/google/uuid"
)

// SharedLimitCreate is a DTO for creating a shared credit limit pool.
type SharedLimitCreate struct {
	UserID      uuid.UUID
	Name        string
	TotalLimit  float64
	Description string
}

// SharedLimitUpdate is a DTO for updating a shared credit limit pool.
type SharedLimitUpdate struct {
	Name        *string
	TotalLimit  *float64
	Description *string
}

// SharedLimitRead is a read-optimized DTO for a pool and its aggregates.
type SharedLimitRead struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	TotalLimit       float64     `json:"total_limit"`
	Description      string      `json:"description,omitempty"`
	MemberAccountIDs []uuid.UUID `json:"member_account_ids"`
	TotalOutstanding float64     `json:"total_outstanding"`
	TotalCredits     float64     `json:"total_credits"`
	NetOutstanding   float64     `json:"net_outstanding"`
	AvailableCredit  float64     `json:"available_credit"`
	Utilization      float64     `json:"utilization"`
	CreatedAt        time.Time   `json:"created_at"`
}
