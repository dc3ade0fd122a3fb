// Package repository defines the storage contract shared by every backend.
// Services and analytics depend only on these interfaces.
package repository

import (
	"context"
	"errors"

	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/types"
)

var (
	// ErrNotFound is returned when a record does not exist or is not visible
	// to the requesting user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// ExpenseFilter narrows expense listings. Zero fields are ignored.
type ExpenseFilter struct {
	StartDate     *types.Date
	EndDate       *types.Date
	CategoryID    string
	PaymentMethod models.PaymentMethod
}

// ExpenseRecord is an expense joined with its category. CategoryName and
// CategoryColor are nil when the expense has no category or the category no
// longer exists.
type ExpenseRecord struct {
	models.Expense
	CategoryName  *string
	CategoryColor *string
}

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CategoryRepository persists shared categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	// GetByName matches case-insensitively.
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete removes the category and detaches it from every expense and
	// budget that referenced it.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ExpenseRepository persists expenses. Every read is scoped to a user.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, userID, id string) (*models.Expense, error)
	// List returns a page ordered by date desc, then createdAt desc.
	List(ctx context.Context, userID string, filter ExpenseFilter, page pagination.PageRequest) ([]models.Expense, int64, error)
	// ListInRange returns every expense with start <= date <= end joined with
	// its category.
	ListInRange(ctx context.Context, userID string, start, end types.Date) ([]ExpenseRecord, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, userID, id string) error
}

// BudgetRepository persists budgets.
type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, userID, id string) (*models.Budget, error)
	ListByUser(ctx context.Context, userID string) ([]models.Budget, error)
	Update(ctx context.Context, budget *models.Budget) error
	Delete(ctx context.Context, userID, id string) error
}

// InsightRepository persists insights.
type InsightRepository interface {
	CreateMany(ctx context.Context, insights []models.Insight) error
	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Insight, error)
	GetByID(ctx context.Context, userID, id string) (*models.Insight, error)
	// MarkRead sets isRead to "true" and returns the updated insight. Marking
	// an already-read insight is a no-op.
	MarkRead(ctx context.Context, userID, id string) (*models.Insight, error)
}

// AuditLogRepository persists audit entries.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// Store bundles one repository per entity for a single backend.
type Store struct {
	Users      UserRepository
	Categories CategoryRepository
	Expenses   ExpenseRepository
	Budgets    BudgetRepository
	Insights   InsightRepository
	AuditLogs  AuditLogRepository

	// Close releases the backend's connections.
	Close func(ctx context.Context) error
	// Ping checks that the backend is reachable.
	Ping func(ctx context.Context) error
}
