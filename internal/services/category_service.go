package services

import (
	"context"
	"errors"
	"strings"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/repository"
)

// categoryService handles category-related business logic. Categories are
// shared by every user.
type categoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store *repository.Store) CategoryServicer {
	return &categoryService{categories: store.Categories}
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, name, color, icon string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if color == "" {
		color = models.DefaultCategoryColor
	}

	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:  name,
		Color: color,
		Icon:  icon,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// ensureUniqueName fails with ErrDuplicateCategory when another category
// already uses name, ignoring case. exceptID is the category being renamed.
func (s *categoryService) ensureUniqueName(ctx context.Context, name, exceptID string) error {
	existing, err := s.categories.GetByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	case existing.ID != exceptID:
		return apperrors.ErrDuplicateCategory
	}
	return nil
}

// ListCategories returns every category ordered by name.
func (s *categoryService) ListCategories(ctx context.Context) []models.Category {
	categories, err := s.categories.List(ctx)
	if err != nil {
		logger.Get().Warnw("failed to list categories, returning empty list", "error", err)
		return []models.Category{}
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories
}

// GetCategoryByID retrieves a category by ID
func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, apperrors.ErrCategoryNotFound)
	}
	return category, nil
}

// UpdateCategory updates an existing category
func (s *categoryService) UpdateCategory(ctx context.Context, id string, update CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
		if !strings.EqualFold(name, category.Name) {
			if err := s.ensureUniqueName(ctx, name, category.ID); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if update.Color != nil {
		category.Color = *update.Color
	}
	if update.Icon != nil {
		category.Icon = *update.Icon
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// DeleteCategory deletes a category. Expenses and budgets that referenced it
// become uncategorized and general respectively.
func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return storageError(err, apperrors.ErrCategoryNotFound)
	}
	return nil
}

// SeedDefaults creates models.DefaultCategories when no category exists yet
// and returns how many were created.
func (s *categoryService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.categories.Count(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, def := range models.DefaultCategories {
		category := &models.Category{Name: def.Name, Color: def.Color, Icon: def.Icon}
		if err := s.categories.Create(ctx, category); err != nil {
			// Another instance seeding at the same time.
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created++
	}
	return created, nil
}
