package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"spendwise/internal/models"
	"spendwise/internal/types"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()
	return CreateTestCategoryWithName(t, db, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryWithName creates a category with the given name.
func CreateTestCategoryWithName(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:  name,
		Color: "#22C55E",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense. categoryID may be nil; amount and
// date use the API formats ("12.50", "2024-01-31").
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, categoryID *string, amount, date string) *models.Expense {
	t.Helper()

	d, err := types.ParseDate(date)
	if err != nil {
		t.Fatalf("bad fixture date: %v", err)
	}

	expense := &models.Expense{
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        types.MustParseMoney(amount),
		Description:   fmt.Sprintf("Test Expense %d", nextID()),
		PaymentMethod: models.PaymentMethodCash,
		Date:          d,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a monthly budget of 100.00 running through 2024.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, categoryID *string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     types.MustParseMoney("100.00"),
		Period:     models.BudgetPeriodMonthly,
		StartDate:  mustDate("2024-01-01"),
		EndDate:    mustDate("2024-12-31"),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestInsight creates an unread insight.
func CreateTestInsight(t *testing.T, db *gorm.DB, userID string) *models.Insight {
	t.Helper()

	insight := &models.Insight{
		UserID:      userID,
		Type:        models.InsightTypeWarning,
		Title:       fmt.Sprintf("Test Insight %d", nextID()),
		Description: "Dining spend is up 40% on last month.",
		Priority:    models.InsightPriorityMedium,
		IsRead:      models.ReadFlagFalse,
	}
	if err := db.Create(insight).Error; err != nil {
		t.Fatalf("failed to create test insight: %v", err)
	}
	return insight
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

func mustDate(s string) types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
