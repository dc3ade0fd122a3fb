package services

import (
	"context"
	"time"

	"spendwise/internal/ai"
	"spendwise/internal/analytics"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(ctx context.Context, email, password string) (*models.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID, tokenHash string) error
	GetRefreshTokenHash(ctx context.Context, userID string) (string, error)
}

// CategoryUpdate holds the optional fields of a category update.
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, name, color, icon string) (*models.Category, error)
	// ListCategories never fails; a storage error yields an empty list.
	ListCategories(ctx context.Context) []models.Category
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	SeedDefaults(ctx context.Context) (int, error)
}

// ExpenseInput holds the fields of a new expense.
type ExpenseInput struct {
	CategoryID    *string
	Amount        types.Money
	Description   string
	PaymentMethod models.PaymentMethod
	Date          types.Date
}

// ExpenseUpdate holds the optional fields of an expense update.
// ClearCategory detaches the expense from its category.
type ExpenseUpdate struct {
	CategoryID    *string
	ClearCategory bool
	Amount        *types.Money
	Description   *string
	PaymentMethod *models.PaymentMethod
	Date          *types.Date
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(ctx context.Context, userID string, input ExpenseInput) (*models.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter repository.ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(ctx context.Context, userID, expenseID string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
}

// BudgetInput holds the fields of a new budget. A nil CategoryID creates a
// general budget.
type BudgetInput struct {
	CategoryID *string
	Amount     types.Money
	Period     models.BudgetPeriod
	StartDate  types.Date
	EndDate    types.Date
}

// BudgetUpdate holds the optional fields of a budget update.
type BudgetUpdate struct {
	CategoryID    *string
	ClearCategory bool
	Amount        *types.Money
	Period        *models.BudgetPeriod
	StartDate     *types.Date
	EndDate       *types.Date
}

// BudgetProgress is a budget measured over the period window containing a
// given day, clipped to the budget's own date range.
type BudgetProgress struct {
	analytics.BudgetAnalysis
	PeriodStart types.Date `json:"periodStart" swaggertype:"string" format:"date"`
	PeriodEnd   types.Date `json:"periodEnd" swaggertype:"string" format:"date"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID string, input BudgetInput) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID string) ([]models.Budget, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID string, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
	GetBudgetProgress(ctx context.Context, userID, budgetID string, today types.Date) (*BudgetProgress, error)
}

// AnalyticsServicer defines the contract for spending statistics.
type AnalyticsServicer interface {
	GetStats(ctx context.Context, userID string, start, end types.Date) (*analytics.Stats, error)
}

// InsightServicer defines the contract for AI spending insights.
type InsightServicer interface {
	ListInsights(ctx context.Context, userID string) ([]models.Insight, error)
	MarkRead(ctx context.Context, userID, insightID string) (*models.Insight, error)
	// GenerateInsights analyzes the month containing now against the month
	// before and persists the resulting insights.
	GenerateInsights(ctx context.Context, userID string, now time.Time) ([]models.Insight, error)
}

// CategorizationResult is an AI categorization with the closest existing
// category, if any.
type CategorizationResult struct {
	ai.Categorization
	CategoryID   *string `json:"categoryId"`
	CategoryName *string `json:"categoryName"`
}

// CategorizationServicer defines the contract for expense categorization.
type CategorizationServicer interface {
	Categorize(ctx context.Context, description string, amount types.Money) CategorizationResult
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
