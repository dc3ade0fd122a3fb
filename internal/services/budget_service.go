package services

import (
	"context"
	"errors"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	budgets    repository.BudgetRepository
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(store *repository.Store) BudgetServicer {
	return &budgetService{
		budgets:    store.Budgets,
		expenses:   store.Expenses,
		categories: store.Categories,
	}
}

// CreateBudget creates a new budget. Without a category it is a general
// budget over all spend. A missing end date closes the first period window.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, input BudgetInput) (*models.Budget, error) {
	period := input.Period
	if period == "" {
		period = models.BudgetPeriodMonthly
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Period:     period,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	if budget.EndDate.IsZero() && !budget.StartDate.IsZero() {
		budget.EndDate = analytics.PeriodWindow(period, budget.StartDate).End
	}

	if err := validateBudget(budget); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, budget.CategoryID); err != nil {
		return nil, err
	}

	if err := s.budgets.Create(ctx, budget); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

func validateBudget(b *models.Budget) error {
	if b.Amount.IsNegative() || b.Amount.IsZero() {
		return apperrors.ErrNonPositiveBudget
	}
	if !b.Period.Valid() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be one of weekly, monthly, yearly")
	}
	if b.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate is required")
	}
	if b.EndDate.Before(b.StartDate) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}

func (s *budgetService) ensureCategory(ctx context.Context, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
		return storageError(err, apperrors.ErrCategoryNotFound)
	}
	return nil
}

// ListBudgets returns all of the user's budgets, most recent start first.
func (s *budgetService) ListBudgets(ctx context.Context, userID string) ([]models.Budget, error) {
	budgets, err := s.budgets.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	budget, err := s.budgets.GetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, storageError(err, apperrors.ErrBudgetNotFound)
	}
	return budget, nil
}

// UpdateBudget updates an existing budget's fields.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID string, update BudgetUpdate) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if update.Amount != nil {
		budget.Amount = *update.Amount
	}
	if update.Period != nil {
		budget.Period = *update.Period
	}
	if update.StartDate != nil {
		budget.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		budget.EndDate = *update.EndDate
	}
	switch {
	case update.ClearCategory:
		budget.CategoryID = nil
	case update.CategoryID != nil:
		if err := s.ensureCategory(ctx, update.CategoryID); err != nil {
			return nil, err
		}
		budget.CategoryID = update.CategoryID
	}

	if err := validateBudget(budget); err != nil {
		return nil, err
	}

	if err := s.budgets.Update(ctx, budget); err != nil {
		return nil, storageError(err, apperrors.ErrBudgetNotFound)
	}
	return budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	if err := s.budgets.Delete(ctx, userID, budgetID); err != nil {
		return storageError(err, apperrors.ErrBudgetNotFound)
	}
	return nil
}

// GetBudgetProgress measures the budget over the period window containing
// today, clipped to the budget's date range. When today falls outside that
// range the nearest window inside it is used.
func (s *budgetService) GetBudgetProgress(ctx context.Context, userID, budgetID string, today types.Date) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	window := budgetWindow(budget, today)

	records, err := s.expenses.ListInRange(ctx, userID, window.Start, window.End)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ref := analytics.BudgetRef{Budget: *budget}
	if budget.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *budget.CategoryID)
		switch {
		case err == nil:
			ref.CategoryName = category.Name
		case !errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return &BudgetProgress{
		BudgetAnalysis: analytics.AnalyzeBudget(ref, analytics.SumCategory(records, budget.CategoryID)),
		PeriodStart:    window.Start,
		PeriodEnd:      window.End,
	}, nil
}

func budgetWindow(budget *models.Budget, today types.Date) analytics.Period {
	active := analytics.Period{Start: budget.StartDate, End: budget.EndDate}

	anchor := today
	if anchor.Before(active.Start) {
		anchor = active.Start
	}
	if anchor.After(active.End) {
		anchor = active.End
	}

	window, ok := analytics.PeriodWindow(budget.Period, anchor).Intersect(active)
	if !ok {
		return active
	}
	return window
}

