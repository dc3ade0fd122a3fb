package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"spendwise/internal/models"
)

type categoryRepo struct {
	db *gorm.DB
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Save(category).Error)
}

// Delete detaches the category from expenses and budgets and removes it in
// one transaction.
func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&models.Budget{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return translate(err)
		}
		return affected(tx.Where("id = ?", id).Delete(&models.Category{}))
	})
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, translate(err)
	}
	return count, nil
}
