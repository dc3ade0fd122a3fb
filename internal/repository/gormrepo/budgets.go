package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"spendwise/internal/models"
)

type budgetRepo struct {
	db *gorm.DB
}

func (r *budgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	return translate(r.db.WithContext(ctx).Create(budget).Error)
}

func (r *budgetRepo) GetByID(ctx context.Context, userID, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&budget).Error; err != nil {
		return nil, translate(err)
	}
	return &budget, nil
}

func (r *budgetRepo) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, translate(err)
	}
	return budgets, nil
}

func (r *budgetRepo) Update(ctx context.Context, budget *models.Budget) error {
	return translate(r.db.WithContext(ctx).Save(budget).Error)
}

func (r *budgetRepo) Delete(ctx context.Context, userID, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Budget{}))
}
