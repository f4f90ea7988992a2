package repository

import (
	"context"

	"github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a gorm-backed transaction repository
// on the given session.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*ledger.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).
		First(&m, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, mapGormError(err, ledger.ErrTransactionNotFound)
	}
	return mapTransactionToDomain(&m), nil
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, filter dto.TransactionFilter) ([]*ledger.Transaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	q = q.Order("date DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var models []Transaction
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*ledger.Transaction, 0, len(models))
	for i := range models {
		result = append(result, mapTransactionToDomain(&models[i]))
	}
	return result, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	m := mapTransactionToModel(tx)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *transactionRepository) Update(ctx context.Context, tx *ledger.Transaction) error {
	m := mapTransactionToModel(tx)
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(&m)
	if res.Error != nil {
		return mapGormError(res.Error, ledger.ErrTransactionNotFound)
	}
	if res.RowsAffected == 0 {
		return ledger.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id).Error
}

func mapTransactionToModel(tx *ledger.Transaction) Transaction {
	return Transaction{
		ID:            tx.ID,
		UserID:        tx.UserID,
		AccountID:     tx.AccountID,
		DestinationID: tx.DestinationID,
		CategoryID:    tx.CategoryID,
		Amount:        tx.Amount,
		Type:          string(tx.Type),
		Date:          tx.Date,
		Note:          tx.Note,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func mapTransactionToDomain(m *Transaction) *ledger.Transaction {
	return &ledger.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		AccountID:     m.AccountID,
		DestinationID: m.DestinationID,
		CategoryID:    m.CategoryID,
		Amount:        m.Amount,
		Type:          ledger.Type(m.Type),
		Date:          m.Date,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
