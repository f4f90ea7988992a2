package repository

import (
	"context"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sharedLimitRepository struct {
	db *gorm.DB
}

// NewSharedLimitRepository creates a gorm-backed shared credit limit
// repository on the given session.
func NewSharedLimitRepository(db *gorm.DB) repository.SharedLimitRepository {
	return &sharedLimitRepository{db: db}
}

func (r *sharedLimitRepository) Get(ctx context.Context, userID, id uuid.UUID) (*account.SharedLimit, error) {
	var m SharedLimit
	err := r.db.WithContext(ctx).
		First(&m, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, mapGormError(err, account.ErrSharedLimitNotFound)
	}
	return mapSharedLimitToDomain(&m), nil
}

func (r *sharedLimitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.SharedLimit, error) {
	var models []SharedLimit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*account.SharedLimit, 0, len(models))
	for i := range models {
		result = append(result, mapSharedLimitToDomain(&models[i]))
	}
	return result, nil
}

func (r *sharedLimitRepository) Create(ctx context.Context, l *account.SharedLimit) error {
	m := mapSharedLimitToModel(l)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *sharedLimitRepository) Update(ctx context.Context, l *account.SharedLimit) error {
	m := mapSharedLimitToModel(l)
	res := r.db.WithContext(ctx).
		Model(&SharedLimit{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(&m)
	if res.Error != nil {
		return mapGormError(res.Error, account.ErrSharedLimitNotFound)
	}
	if res.RowsAffected == 0 {
		return account.ErrSharedLimitNotFound
	}
	return nil
}

func (r *sharedLimitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&SharedLimit{}, "id = ?", id).Error
}

func mapSharedLimitToModel(l *account.SharedLimit) SharedLimit {
	return SharedLimit{
		ID:          l.ID,
		UserID:      l.UserID,
		Name:        l.Name,
		TotalLimit:  l.TotalLimit,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func mapSharedLimitToDomain(m *SharedLimit) *account.SharedLimit {
	return &account.SharedLimit{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		TotalLimit:  m.TotalLimit,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
