package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"spendwise/internal/models"
)

type auditLogRepo struct {
	db *gorm.DB
}

func (r *auditLogRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}
