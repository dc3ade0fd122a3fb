package mongorepo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"spendwise/internal/models"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

func TestExpenseFilter(t *testing.T) {
	start := types.NewDate(2024, 3, 1)
	end := types.NewDate(2024, 3, 31)

	t.Run("user only", func(t *testing.T) {
		assert.Equal(t, bson.D{{Key: "userId", Value: "u1"}}, expenseFilter("u1", repository.ExpenseFilter{}))
	})

	t.Run("all fields", func(t *testing.T) {
		got := expenseFilter("u1", repository.ExpenseFilter{
			StartDate:     &start,
			EndDate:       &end,
			CategoryID:    "c1",
			PaymentMethod: models.PaymentMethodUPI,
		})
		want := bson.D{
			{Key: "userId", Value: "u1"},
			{Key: "date", Value: bson.D{{Key: "$gte", Value: "2024-03-01"}, {Key: "$lte", Value: "2024-03-31"}}},
			{Key: "categoryId", Value: "c1"},
			{Key: "paymentMethod", Value: "upi"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("open ended range", func(t *testing.T) {
		got := expenseFilter("u1", repository.ExpenseFilter{EndDate: &end})
		require.Len(t, got, 2)
		assert.Equal(t, bson.D{{Key: "$lte", Value: "2024-03-31"}}, got[1].Value)
	})
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(mongo.ErrNoDocuments), repository.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.ErrorIs(t, translate(dup), repository.ErrDuplicate)

	other := errors.New("socket closed")
	assert.Equal(t, other, translate(other))
}

func TestStamp(t *testing.T) {
	var id string
	var created, updated time.Time
	stamp(&id, &created, &updated)

	assert.NotEmpty(t, id)
	assert.False(t, created.IsZero())
	assert.Equal(t, created, updated)
	assert.Equal(t, time.UTC, created.Location())

	kept := "0190a0f4-5c6e-7c1a-9b1e-1f2d3c4b5a69"
	stamp(&kept, &created, nil)
	assert.Equal(t, "0190a0f4-5c6e-7c1a-9b1e-1f2d3c4b5a69", kept)
}

func TestExpenseDocument(t *testing.T) {
	categoryID := "c1"
	expense := &models.Expense{
		UserID:        "u1",
		CategoryID:    &categoryID,
		Amount:        types.MustParseMoney("120.5"),
		Description:   "Lunch",
		PaymentMethod: models.PaymentMethodCash,
		Date:          types.NewDate(2024, 3, 9),
	}
	expense.ID = "e1"

	raw, err := bson.Marshal(newExpenseDoc(expense))
	require.NoError(t, err)

	var stored bson.M
	require.NoError(t, bson.Unmarshal(raw, &stored))
	// Date strings sort chronologically, which the range filters rely on.
	assert.Equal(t, "2024-03-09", stored["date"])
	assert.Equal(t, "120.50", stored["amount"])
	assert.Equal(t, "e1", stored["_id"])

	var doc expenseDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got, err := doc.model()
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(expense.Amount))
	assert.Equal(t, expense.Date, got.Date)
	assert.Equal(t, "c1", *got.CategoryID)
}

func TestCorruptDocuments(t *testing.T) {
	_, err := expenseDoc{ID: "e1", Amount: "abc", Date: "2024-03-09"}.model()
	assert.Error(t, err)

	_, err = expenseDoc{ID: "e1", Amount: "1.00", Date: "March 9"}.model()
	assert.Error(t, err)

	_, err = budgetDoc{ID: "b1", Amount: "10.00", StartDate: "2024-03-01", EndDate: ""}.model()
	assert.Error(t, err)
}
