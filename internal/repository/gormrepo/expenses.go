package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

type expenseRepo struct {
	db *gorm.DB
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	return translate(r.db.WithContext(ctx).Create(expense).Error)
}

func (r *expenseRepo) GetByID(ctx context.Context, userID, id string) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error; err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

func (r *expenseRepo) List(ctx context.Context, userID string, filter repository.ExpenseFilter, page pagination.PageRequest) ([]models.Expense, int64, error) {
	base := applyExpenseFilter(
		r.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", userID),
		filter,
	)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, 0, translate(err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, 0, translate(err)
	}
	return expenses, totalItems, nil
}

func applyExpenseFilter(q *gorm.DB, f repository.ExpenseFilter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.PaymentMethod != "" {
		q = q.Where("payment_method = ?", f.PaymentMethod)
	}
	return q
}

// ListInRange resolves categories with a LEFT JOIN so dangling references
// come back with a nil name.
func (r *expenseRepo) ListInRange(ctx context.Context, userID string, start, end types.Date) ([]repository.ExpenseRecord, error) {
	var records []repository.ExpenseRecord
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select("expenses.*, categories.name AS category_name, categories.color AS category_color").
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND expenses.date >= ? AND expenses.date <= ?", userID, start, end).
		Order("expenses.date ASC").
		Order("expenses.created_at ASC").
		Scan(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	return records, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	return translate(r.db.WithContext(ctx).Save(expense).Error)
}

func (r *expenseRepo) Delete(ctx context.Context, userID, id string) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Expense{}))
}
