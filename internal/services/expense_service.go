package services

import (
	"context"
	"strings"
	"time"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(store *repository.Store) ExpenseServicer {
	return &expenseService{
		expenses:   store.Expenses,
		categories: store.Categories,
		now:        time.Now,
	}
}

// CreateExpense records a new expense for the user.
func (s *expenseService) CreateExpense(ctx context.Context, userID string, input ExpenseInput) (*models.Expense, error) {
	if input.Amount.IsNegative() {
		return nil, apperrors.ErrInvalidAmount
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if !method.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid payment method")
	}

	// Default date to today if not provided
	date := input.Date
	if date.IsZero() {
		date = types.DateOf(s.now().UTC())
	}

	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:        userID,
		CategoryID:    input.CategoryID,
		Amount:        input.Amount,
		Description:   description,
		PaymentMethod: method,
		Date:          date,
	}

	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// ensureCategory checks that a referenced category exists.
func (s *expenseService) ensureCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
		return storageError(err, apperrors.ErrCategoryNotFound)
	}
	return nil
}

// ListExpenses returns a page of the user's expenses, newest first.
func (s *expenseService) ListExpenses(
	ctx context.Context,
	userID string,
	filter repository.ExpenseFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	expenses, totalItems, err := s.expenses.List(ctx, userID, filter, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID returns an expense owned by the user.
func (s *expenseService) GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, userID, expenseID)
	if err != nil {
		return nil, storageError(err, apperrors.ErrExpenseNotFound)
	}
	return expense, nil
}

// UpdateExpense applies the non-nil fields of update.
func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if update.Amount != nil {
		if update.Amount.IsNegative() {
			return nil, apperrors.ErrInvalidAmount
		}
		expense.Amount = *update.Amount
	}
	if update.Description != nil {
		description := strings.TrimSpace(*update.Description)
		if description == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
		}
		expense.Description = description
	}
	if update.PaymentMethod != nil {
		if !update.PaymentMethod.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid payment method")
		}
		expense.PaymentMethod = *update.PaymentMethod
	}
	if update.Date != nil && !update.Date.IsZero() {
		expense.Date = *update.Date
	}
	switch {
	case update.ClearCategory:
		expense.CategoryID = nil
	case update.CategoryID != nil:
		if err := s.ensureCategory(ctx, update.CategoryID); err != nil {
			return nil, err
		}
		expense.CategoryID = update.CategoryID
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, storageError(err, apperrors.ErrExpenseNotFound)
	}
	return expense, nil
}

// DeleteExpense removes an expense owned by the user.
func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	if err := s.expenses.Delete(ctx, userID, expenseID); err != nil {
		return storageError(err, apperrors.ErrExpenseNotFound)
	}
	return nil
}
