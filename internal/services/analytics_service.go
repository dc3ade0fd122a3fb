package services

import (
	"context"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

// analyticsService computes spending statistics.
type analyticsService struct {
	expenses repository.ExpenseRepository
}

// NewAnalyticsService creates a new AnalyticsServicer.
func NewAnalyticsService(store *repository.Store) AnalyticsServicer {
	return &analyticsService{expenses: store.Expenses}
}

// GetStats aggregates the user's expenses dated within [start, end].
func (s *analyticsService) GetStats(ctx context.Context, userID string, start, end types.Date) (*analytics.Stats, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "startDate and endDate are required")
	}
	if end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}

	records, err := s.expenses.ListInRange(ctx, userID, start, end)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stats := analytics.Aggregate(records)
	return &stats, nil
}
