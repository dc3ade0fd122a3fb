// Package mongorepo implements the repository contract on MongoDB. Each
// entity lives in its own collection keyed by a string _id.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"spendwise/internal/repository"
	"spendwise/internal/uuid"
)

// Collection names.
const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ExpensesCollection   = "expenses"
	BudgetsCollection    = "budgets"
	InsightsCollection   = "insights"
	AuditLogsCollection  = "audit_logs"
)

// New returns a Store backed by database. The caller owns the client
// lifecycle unless it uses the returned Store's Close.
func New(database *mongo.Database) *repository.Store {
	client := database.Client()
	return &repository.Store{
		Users:      &userRepo{coll: database.Collection(UsersCollection)},
		Categories: &categoryRepo{db: database, coll: database.Collection(CategoriesCollection)},
		Expenses:   &expenseRepo{coll: database.Collection(ExpensesCollection), categories: database.Collection(CategoriesCollection)},
		Budgets:    &budgetRepo{coll: database.Collection(BudgetsCollection)},
		Insights:   &insightRepo{coll: database.Collection(InsightsCollection)},
		AuditLogs:  &auditLogRepo{coll: database.Collection(AuditLogsCollection)},
		Close:      client.Disconnect,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}
}

// EnsureIndexes creates the indexes every query relies on. It is idempotent.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "nameLower", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ExpensesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		},
		BudgetsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		},
		InsightsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}

// stamp assigns an id and creation timestamps to a new document.
func stamp(id *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = uuid.New()
	}
	now := time.Now().UTC()
	*createdAt = now
	if updatedAt != nil {
		*updatedAt = now
	}
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func byUserAndID(userID, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}
}
