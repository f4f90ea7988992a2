package repository

import (
	"context"

	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a gorm-backed category repository on
// the given session.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Get(ctx context.Context, userID, id uuid.UUID) (*category.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).
		First(&m, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, mapGormError(err, category.ErrCategoryNotFound)
	}
	return mapCategoryToDomain(&m), nil
}

func (r *categoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	var models []Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*category.Category, 0, len(models))
	for i := range models {
		result = append(result, mapCategoryToDomain(&models[i]))
	}
	return result, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	m := mapCategoryToModel(c)
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	m := mapCategoryToModel(c)
	res := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(&m)
	if res.Error != nil {
		return mapGormError(res.Error, category.ErrCategoryNotFound)
	}
	if res.RowsAffected == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id).Error
}

func mapCategoryToModel(c *category.Category) Category {
	return Category{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func mapCategoryToDomain(m *Category) *category.Category {
	return &category.Category{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Kind:      category.Kind(m.Kind),
		Icon:      m.Icon,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
