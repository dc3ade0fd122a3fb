package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"spendwise/internal/models"
)

type insightRepo struct {
	db *gorm.DB
}

func (r *insightRepo) CreateMany(ctx context.Context, insights []models.Insight) error {
	if len(insights) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&insights).Error)
}

func (r *insightRepo) ListByUser(ctx context.Context, userID string) ([]models.Insight, error) {
	var insights []models.Insight
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&insights).Error; err != nil {
		return nil, translate(err)
	}
	return insights, nil
}

func (r *insightRepo) GetByID(ctx context.Context, userID, id string) (*models.Insight, error) {
	var insight models.Insight
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&insight).Error; err != nil {
		return nil, translate(err)
	}
	return &insight, nil
}

func (r *insightRepo) MarkRead(ctx context.Context, userID, id string) (*models.Insight, error) {
	insight, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if insight.IsRead == models.ReadFlagTrue {
		return insight, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Insight{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", models.ReadFlagTrue).Error; err != nil {
		return nil, translate(err)
	}
	insight.IsRead = models.ReadFlagTrue
	return insight, nil
}
