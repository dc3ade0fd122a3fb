package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"spendwise/internal/ai"
	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

// InsightGenerator turns an analysis into insight drafts. *ai.InsightFormatter
// satisfies it.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, analysis analytics.Analysis) []ai.InsightDraft
}

// insightService handles insight generation and retrieval.
type insightService struct {
	insights   repository.InsightRepository
	expenses   repository.ExpenseRepository
	budgets    repository.BudgetRepository
	categories repository.CategoryRepository
	generator  InsightGenerator
	flight     singleflight.Group
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(store *repository.Store, generator InsightGenerator) InsightServicer {
	return &insightService{
		insights:   store.Insights,
		expenses:   store.Expenses,
		budgets:    store.Budgets,
		categories: store.Categories,
		generator:  generator,
	}
}

// ListInsights returns the user's insights, newest first.
func (s *insightService) ListInsights(ctx context.Context, userID string) ([]models.Insight, error) {
	insights, err := s.insights.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if insights == nil {
		insights = []models.Insight{}
	}
	return insights, nil
}

// MarkRead flags an insight as read. Marking it again is a no-op.
func (s *insightService) MarkRead(ctx context.Context, userID, insightID string) (*models.Insight, error) {
	insight, err := s.insights.MarkRead(ctx, userID, insightID)
	if err != nil {
		return nil, storageError(err, apperrors.ErrInsightNotFound)
	}
	return insight, nil
}

// GenerateInsights analyzes the calendar month containing now against the
// previous month. Concurrent calls for the same user and month share one
// execution and one persisted batch.
func (s *insightService) GenerateInsights(ctx context.Context, userID string, now time.Time) ([]models.Insight, error) {
	day := types.DateOf(now.UTC())
	key := fmt.Sprintf("%s|%s", userID, day.Time().Format("2006-01"))

	result, err, shared := s.flight.Do(key, func() (interface{}, error) {
		// Waiters that joined this call must not lose it to the first
		// caller's cancellation.
		return s.generate(context.WithoutCancel(ctx), userID, day)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debugw("insight generation shared", "user_id", userID, "key", key)
	}
	return result.([]models.Insight), nil
}

func (s *insightService) generate(ctx context.Context, userID string, day types.Date) ([]models.Insight, error) {
	current := analytics.MonthRange(day)
	previous := analytics.PreviousMonthRange(day)

	var (
		currentRecords  []repository.ExpenseRecord
		previousRecords []repository.ExpenseRecord
		budgets         []models.Budget
		categories      []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		currentRecords, err = s.expenses.ListInRange(gctx, userID, current.Start, current.End)
		return err
	})
	g.Go(func() error {
		var err error
		previousRecords, err = s.expenses.ListInRange(gctx, userID, previous.Start, previous.End)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	refs := activeBudgets(budgets, categories, current)
	loaded := analytics.Period{Start: previous.Start, End: current.End}
	records := make([]repository.ExpenseRecord, 0, len(previousRecords)+len(currentRecords))
	records = append(append(records, previousRecords...), currentRecords...)
	if err := s.measureBudgets(ctx, userID, day, refs, loaded, records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	analysis := analytics.Analyze(
		analytics.Aggregate(currentRecords),
		analytics.Aggregate(previousRecords),
		refs,
	)
	analysis.CurrentPeriod = &current
	analysis.PreviousPeriod = &previous

	drafts := s.generator.GenerateInsights(ctx, analysis)

	insights := make([]models.Insight, 0, len(drafts))
	for _, d := range drafts {
		insights = append(insights, models.Insight{
			UserID:      userID,
			Type:        d.Type,
			Title:       d.Title,
			Description: d.Description,
			Priority:    d.Priority,
			IsRead:      models.ReadFlagFalse,
		})
	}

	if err := s.insights.CreateMany(ctx, insights); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return insights, nil
}

// activeBudgets resolves category names for the budgets whose date range
// overlaps period.
func activeBudgets(budgets []models.Budget, categories []models.Category, period analytics.Period) []analytics.BudgetRef {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	refs := make([]analytics.BudgetRef, 0, len(budgets))
	for _, b := range budgets {
		if _, ok := period.Intersect(analytics.Period{Start: b.StartDate, End: b.EndDate}); !ok {
			continue
		}
		ref := analytics.BudgetRef{Budget: b}
		if b.CategoryID != nil {
			ref.CategoryName = names[*b.CategoryID]
		}
		refs = append(refs, ref)
	}
	return refs
}

// measureBudgets sets each ref's spend to what fell inside its own period
// window around day. records cover loaded; a window reaching past it triggers
// one query over the union of all windows.
func (s *insightService) measureBudgets(ctx context.Context, userID string, day types.Date, refs []analytics.BudgetRef, loaded analytics.Period, records []repository.ExpenseRecord) error {
	if len(refs) == 0 {
		return nil
	}

	windows := make([]analytics.Period, len(refs))
	span, extend := loaded, false
	for i := range refs {
		w := budgetWindow(&refs[i].Budget, day)
		windows[i] = w
		if w.Start.Before(span.Start) {
			span.Start, extend = w.Start, true
		}
		if w.End.After(span.End) {
			span.End, extend = w.End, true
		}
	}

	if extend {
		var err error
		records, err = s.expenses.ListInRange(ctx, userID, span.Start, span.End)
		if err != nil {
			return err
		}
	}

	for i := range refs {
		spent := analytics.SumCategory(analytics.InPeriod(records, windows[i]), refs[i].Budget.CategoryID)
		refs[i].Spent = &spent
	}
	return nil
}
