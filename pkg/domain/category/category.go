// Package category holds transaction category metadata. Categories are
// not financially load-bearing; they exist as labels and foreign keys.
package category

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrCategoryNotFound is returned when a referenced category is absent
// or not owned by the caller.
var ErrCategoryNotFound = errors.New("category not found")

// Kind distinguishes categories offered for income vs expense entry.
type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// Category is a user-defined transaction label.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Kind      Kind
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
