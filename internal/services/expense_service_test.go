package services

import (
	"context"
	"testing"
	"time"

	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/testutil"
	"spendwise/internal/types"
)

func mustDate(t *testing.T, s string) types.Date {
	t.Helper()
	d, err := types.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db)

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			CategoryID:    &cat.ID,
			Amount:        types.MustParseMoney("12.50"),
			Description:   "Lunch",
			PaymentMethod: models.PaymentMethodUPI,
			Date:          mustDate(t, "2024-03-15"),
		})
		testutil.AssertNoError(t, err)

		if expense.ID == "" {
			t.Fatal("expected expense ID to be set")
		}
		if expense.Amount.String() != "12.50" {
			t.Errorf("expected amount 12.50, got %s", expense.Amount)
		}

		got, err := store.Expenses.GetByID(ctx, user.ID, expense.ID)
		testutil.AssertNoError(t, err)
		if got.Amount.String() != "12.50" || got.Date.String() != "2024-03-15" {
			t.Errorf("unexpected stored expense: %s on %s", got.Amount, got.Date)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store).(*expenseService)
		svc.now = func() time.Time { return time.Date(2024, 5, 6, 22, 0, 0, 0, time.UTC) }
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Amount:      types.MustParseMoney("0"),
			Description: "Free sample",
		})
		testutil.AssertNoError(t, err)

		if expense.PaymentMethod != models.PaymentMethodCash {
			t.Errorf("expected default payment method cash, got %s", expense.PaymentMethod)
		}
		if expense.Date.String() != "2024-05-06" {
			t.Errorf("expected date to default to today, got %s", expense.Date)
		}
		if expense.CategoryID != nil {
			t.Error("expected no category")
		}
	})

	t.Run("negative_amount", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Amount:      types.MustParseMoney("-1.00"),
			Description: "Refund",
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("missing_description", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{Amount: types.MustParseMoney("1")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		user := testutil.CreateTestUser(t, db)

		missing := "0190a5c8-0000-7000-8000-000000000000"
		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			CategoryID:  &missing,
			Amount:      types.MustParseMoney("1"),
			Description: "Ghost",
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestListExpenses(t *testing.T) {
	ctx := context.Background()
	store, db := testutil.SetupTestStore(t)
	svc := NewExpenseService(store)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db)

	testutil.CreateTestExpense(t, db, user.ID, &cat.ID, "10.00", "2024-01-05")
	testutil.CreateTestExpense(t, db, user.ID, nil, "20.00", "2024-01-20")
	testutil.CreateTestExpense(t, db, user.ID, &cat.ID, "30.00", "2024-02-01")
	testutil.CreateTestExpense(t, db, other.ID, &cat.ID, "99.00", "2024-01-10")

	t.Run("newest_first_and_scoped", func(t *testing.T) {
		result, err := svc.ListExpenses(ctx, user.ID, repository.ExpenseFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 3 {
			t.Fatalf("expected 3 expenses, got %d", result.TotalItems)
		}
		if result.Data[0].Date.String() != "2024-02-01" {
			t.Errorf("expected newest first, got %s", result.Data[0].Date)
		}
		if result.PageSize != pagination.DefaultPageSize {
			t.Errorf("expected default page size, got %d", result.PageSize)
		}
	})

	t.Run("filters", func(t *testing.T) {
		start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31")
		result, err := svc.ListExpenses(ctx, user.ID, repository.ExpenseFilter{
			StartDate:  &start,
			EndDate:    &end,
			CategoryID: cat.ID,
		}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Fatalf("expected 1 expense, got %d", result.TotalItems)
		}
		if result.Data[0].Amount.String() != "10.00" {
			t.Errorf("expected the 10.00 expense, got %s", result.Data[0].Amount)
		}
	})

	t.Run("paging", func(t *testing.T) {
		result, err := svc.ListExpenses(ctx, user.ID, repository.ExpenseFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 1 || result.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items, %d pages", len(result.Data), result.TotalPages)
		}
	})

	t.Run("inverted_range", func(t *testing.T) {
		start, end := mustDate(t, "2024-02-01"), mustDate(t, "2024-01-01")
		_, err := svc.ListExpenses(ctx, user.ID, repository.ExpenseFilter{StartDate: &start, EndDate: &end}, pagination.PageRequest{})
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")
	})
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("partial_update", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, &cat.ID, "10.00", "2024-01-05")

		amount := types.MustParseMoney("15.75")
		updated, err := svc.UpdateExpense(ctx, user.ID, expense.ID, ExpenseUpdate{Amount: &amount, ClearCategory: true})
		testutil.AssertNoError(t, err)

		if updated.Amount.String() != "15.75" {
			t.Errorf("expected amount 15.75, got %s", updated.Amount)
		}
		if updated.CategoryID != nil {
			t.Error("expected category to be cleared")
		}
		if updated.Description != expense.Description {
			t.Errorf("expected description unchanged, got %s", updated.Description)
		}
	})

	t.Run("other_users_expense", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, owner.ID, nil, "10.00", "2024-01-05")

		desc := "mine now"
		_, err := svc.UpdateExpense(ctx, intruder.ID, expense.ID, ExpenseUpdate{Description: &desc})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("invalid_payment_method", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewExpenseService(store)
		user := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, nil, "10.00", "2024-01-05")

		method := models.PaymentMethod("cheque")
		_, err := svc.UpdateExpense(ctx, user.ID, expense.ID, ExpenseUpdate{PaymentMethod: &method})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	store, db := testutil.SetupTestStore(t)
	svc := NewExpenseService(store)
	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, nil, "10.00", "2024-01-05")

	testutil.AssertNoError(t, svc.DeleteExpense(ctx, user.ID, expense.ID))

	_, err := svc.GetExpenseByID(ctx, user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	err = svc.DeleteExpense(ctx, user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}
