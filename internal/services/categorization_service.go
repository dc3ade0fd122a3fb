package services

import (
	"context"
	"strings"

	"spendwise/internal/ai"
	"spendwise/internal/types"
)

// Categorizer picks a label for a free-text expense. *ai.Categorizer
// satisfies it.
type Categorizer interface {
	Categorize(ctx context.Context, description string, amount types.Money) ai.Categorization
}

// categorizationService matches AI labels to existing categories.
type categorizationService struct {
	categorizer Categorizer
	categories  CategoryServicer
}

// NewCategorizationService creates a new CategorizationServicer.
func NewCategorizationService(categorizer Categorizer, categories CategoryServicer) CategorizationServicer {
	return &categorizationService{categorizer: categorizer, categories: categories}
}

// Categorize asks for a label and attaches the first category, in name
// order, whose name contains the label or is contained in it, ignoring case.
func (s *categorizationService) Categorize(ctx context.Context, description string, amount types.Money) CategorizationResult {
	result := CategorizationResult{
		Categorization: s.categorizer.Categorize(ctx, description, amount),
	}

	label := strings.ToLower(string(result.Category))
	for _, c := range s.categories.ListCategories(ctx) {
		name := strings.ToLower(c.Name)
		if strings.Contains(name, label) || strings.Contains(label, name) {
			id, matched := c.ID, c.Name
			result.CategoryID = &id
			result.CategoryName = &matched
			break
		}
	}
	return result
}
