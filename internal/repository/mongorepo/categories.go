package mongorepo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"spendwise/internal/models"
	"spendwise/internal/repository"
)

type categoryRepo struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	stamp(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if category.Color == "" {
		category.Color = models.DefaultCategoryColor
	}
	_, err := r.coll.InsertOne(ctx, newCategoryDoc(category))
	return translate(err)
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	categories := make([]models.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, *d.model())
	}
	return categories, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findOne(ctx, byID(id))
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.findOne(ctx, bson.D{{Key: "nameLower", Value: strings.ToLower(name)}})
}

func (r *categoryRepo) findOne(ctx context.Context, filter bson.D) (*models.Category, error) {
	var doc categoryDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, byID(category.ID), newCategoryDoc(category))
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete detaches the category from expenses and budgets, then removes it.
// The steps are sequential; a failure part way leaves references detached
// but the category in place, which is safe to retry.
func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	detach := bson.D{{Key: "$set", Value: bson.D{{Key: "categoryId", Value: nil}}}}
	filter := bson.D{{Key: "categoryId", Value: id}}

	for _, name := range []string{ExpensesCollection, BudgetsCollection} {
		if _, err := r.db.Collection(name).UpdateMany(ctx, filter, detach); err != nil {
			return translate(err)
		}
	}

	res, err := r.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	return n, translate(err)
}
