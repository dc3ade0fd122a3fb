package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"spendwise/internal/models"
)

type auditLogRepo struct {
	coll *mongo.Collection
}

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	stamp(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	_, err := r.coll.InsertOne(ctx, auditLogDoc{
		ID:           entry.ID,
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IPAddress:    entry.IPAddress,
		Changes:      entry.Changes,
		CreatedAt:    entry.CreatedAt,
	})
	return translate(err)
}
