package services

import (
	"context"
	"testing"

	"spendwise/internal/analytics"
	"spendwise/internal/testutil"
	"spendwise/internal/types"
)

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewAnalyticsService(store)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategoryWithName(t, db, "Food")

		testutil.CreateTestExpense(t, db, user.ID, &food.ID, "100", "2024-01-01")
		testutil.CreateTestExpense(t, db, user.ID, &food.ID, "50", "2024-01-02")
		testutil.CreateTestExpense(t, db, user.ID, nil, "30", "2024-01-01")
		testutil.CreateTestExpense(t, db, user.ID, nil, "999", "2024-01-03") // outside range

		stats, err := svc.GetStats(ctx, user.ID, types.NewDate(2024, 1, 1), types.NewDate(2024, 1, 2))
		testutil.AssertNoError(t, err)

		if stats.TotalSpent.String() != "180.00" {
			t.Errorf("expected totalSpent 180.00, got %s", stats.TotalSpent)
		}
		if len(stats.CategoryBreakdown) != 2 {
			t.Fatalf("expected 2 breakdown entries, got %d", len(stats.CategoryBreakdown))
		}
		if got := stats.CategoryBreakdown[0]; got.CategoryName != "Food" || got.Amount.String() != "150.00" {
			t.Errorf("expected Food 150.00 first, got %s %s", got.CategoryName, got.Amount)
		}
		if got := stats.CategoryBreakdown[1]; got.CategoryName != analytics.UncategorizedName || got.Amount.String() != "30.00" {
			t.Errorf("expected Uncategorized 30.00 second, got %s %s", got.CategoryName, got.Amount)
		}
		if len(stats.DailyTrend) != 2 {
			t.Fatalf("expected 2 trend entries, got %d", len(stats.DailyTrend))
		}
		if stats.DailyTrend[0].Date.String() != "2024-01-01" || stats.DailyTrend[0].Amount.String() != "130.00" {
			t.Errorf("unexpected first trend entry: %s %s", stats.DailyTrend[0].Date, stats.DailyTrend[0].Amount)
		}
	})

	t.Run("empty_range", func(t *testing.T) {
		store, db := testutil.SetupTestStore(t)
		svc := NewAnalyticsService(store)
		user := testutil.CreateTestUser(t, db)

		stats, err := svc.GetStats(ctx, user.ID, types.NewDate(2024, 1, 1), types.NewDate(2024, 1, 31))
		testutil.AssertNoError(t, err)

		if !stats.TotalSpent.IsZero() {
			t.Errorf("expected zero total, got %s", stats.TotalSpent)
		}
		if stats.CategoryBreakdown == nil || stats.DailyTrend == nil {
			t.Error("expected empty, non-nil lists")
		}
	})

	t.Run("invalid_range", func(t *testing.T) {
		store, _ := testutil.SetupTestStore(t)
		svc := NewAnalyticsService(store)

		_, err := svc.GetStats(ctx, "u", types.NewDate(2024, 2, 1), types.NewDate(2024, 1, 1))
		testutil.AssertAppError(t, err, "INVALID_DATE_RANGE")

		_, err = svc.GetStats(ctx, "u", types.Date{}, types.NewDate(2024, 1, 1))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
