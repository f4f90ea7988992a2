package repository

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an account record in the database. Balance is
// stored in the domain sign convention (credit debt is negative).
type Account struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name           string     `gorm:"type:varchar(100);not null"`
	Type           string     `gorm:"type:varchar(10);not null"`
	Balance        float64    `gorm:"not null;default:0"`
	Currency       string     `gorm:"type:varchar(3);not null;default:'USD'"`
	CreditLimit    float64    `gorm:"not null;default:0"`
	SharedLimitID  *uuid.UUID `gorm:"type:uuid;index"`
	BillingDay     int
	DueDay         int
	AlertEnabled   bool
	AlertThreshold float64
	Archived       bool `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction represents a ledger entry in the database. Amount is
// always positive; the type decides the direction.
type Transaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	AccountID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	DestinationID *uuid.UUID `gorm:"type:uuid;index"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index"`
	Amount        float64    `gorm:"not null"`
	Type          string     `gorm:"type:varchar(10);not null"`
	Date          time.Time  `gorm:"index;not null"`
	Note          string     `gorm:"type:varchar(500)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// SharedLimit represents a shared credit limit pool.
type SharedLimit struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"type:varchar(100);not null"`
	TotalLimit  float64   `gorm:"not null"`
	Description string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the SharedLimit model.
func (SharedLimit) TableName() string {
	return "shared_limits"
}

// Category represents a transaction category.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Kind      string    `gorm:"type:varchar(10);not null"`
	Icon      string    `gorm:"type:varchar(50)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// Models lists every persisted model for schema migration. SharedLimit
// and Category come before the rows that reference them.
func Models() []any {
	return []any{&SharedLimit{}, &Category{}, &Account{}, &Transaction{}}
}
