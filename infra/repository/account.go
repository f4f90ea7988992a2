package repository

import (
	"context"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a gorm-backed account repository on the
// given session.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, userID, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		First(&m, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, mapGormError(err, account.ErrAccountNotFound)
	}
	return mapAccountToDomain(&m), nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		result = append(result, mapAccountToDomain(&models[i]))
	}
	return result, nil
}

func (r *accountRepository) ListBySharedLimit(ctx context.Context, userID, limitID uuid.UUID) ([]*account.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND shared_limit_id = ?", userID, limitID).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*account.Account, 0, len(models))
	for i := range models {
		result = append(result, mapAccountToDomain(&models[i]))
	}
	return result, nil
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := mapAccountToModel(a)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	m := mapAccountToModel(a)
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(&m)
	if res.Error != nil {
		return mapGormError(res.Error, account.ErrAccountNotFound)
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance float64) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return mapGormError(res.Error, account.ErrAccountNotFound)
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func mapAccountToModel(a *account.Account) Account {
	return Account{
		ID:             a.ID,
		UserID:         a.UserID,
		Name:           a.Name,
		Type:           string(a.Type),
		Balance:        a.Balance,
		Currency:       a.Currency,
		CreditLimit:    a.CreditLimit,
		SharedLimitID:  a.SharedLimitID,
		BillingDay:     a.BillingDay,
		DueDay:         a.DueDay,
		AlertEnabled:   a.AlertEnabled,
		AlertThreshold: a.AlertThreshold,
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func mapAccountToDomain(m *Account) *account.Account {
	return &account.Account{
		ID:             m.ID,
		UserID:         m.UserID,
		Name:           m.Name,
		Type:           account.Type(m.Type),
		Balance:        m.Balance,
		Currency:       m.Currency,
		CreditLimit:    m.CreditLimit,
		SharedLimitID:  m.SharedLimitID,
		BillingDay:     m.BillingDay,
		DueDay:         m.DueDay,
		AlertEnabled:   m.AlertEnabled,
		AlertThreshold: m.AlertThreshold,
		Archived:       m.Archived,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
