package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"spendwise/internal/models"
	"spendwise/internal/repository"
)

type budgetRepo struct {
	coll *mongo.Collection
}

func (r *budgetRepo) Create(ctx context.Context, budget *models.Budget) error {
	stamp(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if budget.Period == "" {
		budget.Period = models.BudgetPeriodMonthly
	}
	_, err := r.coll.InsertOne(ctx, newBudgetDoc(budget))
	return translate(err)
}

func (r *budgetRepo) GetByID(ctx context.Context, userID, id string) (*models.Budget, error) {
	var doc budgetDoc
	if err := r.coll.FindOne(ctx, byUserAndID(userID, id)).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model()
}

func (r *budgetRepo) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []budgetDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	budgets := make([]models.Budget, 0, len(docs))
	for _, d := range docs {
		b, err := d.model()
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, nil
}

func (r *budgetRepo) Update(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, byUserAndID(budget.UserID, budget.ID), newBudgetDoc(budget))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *budgetRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.coll.DeleteOne(ctx, byUserAndID(userID, id))
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
