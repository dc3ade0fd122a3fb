package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"spendwise/internal/models"
)

type insightRepo struct {
	coll *mongo.Collection
}

func (r *insightRepo) CreateMany(ctx context.Context, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	docs := make([]insightDoc, 0, len(insights))
	for i := range insights {
		stamp(&insights[i].ID, &insights[i].CreatedAt, nil)
		if insights[i].IsRead == "" {
			insights[i].IsRead = models.ReadFlagFalse
		}
		docs = append(docs, newInsightDoc(&insights[i]))
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return translate(err)
}

func (r *insightRepo) ListByUser(ctx context.Context, userID string) ([]models.Insight, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "userId", Value: userID}}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []insightDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}

	insights := make([]models.Insight, 0, len(docs))
	for _, d := range docs {
		insights = append(insights, *d.model())
	}
	return insights, nil
}

func (r *insightRepo) GetByID(ctx context.Context, userID, id string) (*models.Insight, error) {
	var doc insightDoc
	if err := r.coll.FindOne(ctx, byUserAndID(userID, id)).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}

// MarkRead uses FindOneAndUpdate so the transition and the read of the
// result happen in one round trip.
func (r *insightRepo) MarkRead(ctx context.Context, userID, id string) (*models.Insight, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "isRead", Value: string(models.ReadFlagTrue)}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc insightDoc
	if err := r.coll.FindOneAndUpdate(ctx, byUserAndID(userID, id), update, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.model(), nil
}
