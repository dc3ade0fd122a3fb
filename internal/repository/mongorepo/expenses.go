package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

type expenseRepo struct {
	coll       *mongo.Collection
	categories *mongo.Collection
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	stamp(&expense.ID, &expense.CreatedAt, &expense.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, newExpenseDoc(expense))
	return translate(err)
}

func (r *expenseRepo) GetByID(ctx context.Context, userID, id string) (*models.Expense, error) {
	var doc expenseDoc
	if err := r.coll.FindOne(ctx, byUserAndID(userID, id)).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model()
}

func expenseFilter(userID string, f repository.ExpenseFilter) bson.D {
	filter := bson.D{{Key: "userId", Value: userID}}

	dateRange := bson.D{}
	if f.StartDate != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: f.StartDate.String()})
	}
	if f.EndDate != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: f.EndDate.String()})
	}
	if len(dateRange) > 0 {
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}
	if f.CategoryID != "" {
		filter = append(filter, bson.E{Key: "categoryId", Value: f.CategoryID})
	}
	if f.PaymentMethod != "" {
		filter = append(filter, bson.E{Key: "paymentMethod", Value: string(f.PaymentMethod)})
	}
	return filter
}

func (r *expenseRepo) List(ctx context.Context, userID string, filter repository.ExpenseFilter, page pagination.PageRequest) ([]models.Expense, int64, error) {
	query := expenseFilter(userID, filter)

	totalItems, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translate(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.PageSize))
	expenses, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return expenses, totalItems, nil
}

func (r *expenseRepo) find(ctx context.Context, query bson.D, opts *options.FindOptionsBuilder) ([]models.Expense, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []expenseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	expenses := make([]models.Expense, 0, len(docs))
	for _, d := range docs {
		e, err := d.model()
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, nil
}

// ListInRange loads the range and resolves the referenced categories with a
// second query, so dangling references come back with a nil name.
func (r *expenseRepo) ListInRange(ctx context.Context, userID string, start, end types.Date) ([]repository.ExpenseRecord, error) {
	query := expenseFilter(userID, repository.ExpenseFilter{StartDate: &start, EndDate: &end})
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})

	expenses, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, e := range expenses {
		if e.CategoryID != nil && !seen[*e.CategoryID] {
			seen[*e.CategoryID] = true
			ids = append(ids, *e.CategoryID)
		}
	}

	byCategory := make(map[string]categoryDoc, len(ids))
	if len(ids) > 0 {
		cursor, err := r.categories.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
		if err != nil {
			return nil, translate(err)
		}
		var docs []categoryDoc
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, translate(err)
		}
		for _, d := range docs {
			byCategory[d.ID] = d
		}
	}

	records := make([]repository.ExpenseRecord, 0, len(expenses))
	for _, e := range expenses {
		record := repository.ExpenseRecord{Expense: e}
		if e.CategoryID != nil {
			if c, ok := byCategory[*e.CategoryID]; ok {
				name, color := c.Name, c.Color
				record.CategoryName = &name
				record.CategoryColor = &color
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, byUserAndID(expense.UserID, expense.ID), newExpenseDoc(expense))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *expenseRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, byUserAndID(userID, id))
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
