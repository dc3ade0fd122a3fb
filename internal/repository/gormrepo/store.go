// Package gormrepo implements the repository contract on a relational
// database through GORM. PostgreSQL and SQLite are both supported.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"spendwise/internal/repository"
)

// New returns a Store whose repositories share db. Every call is scoped to
// the caller's context with db.WithContext.
func New(db *gorm.DB) *repository.Store {
	return &repository.Store{
		Users:      &userRepo{db: db},
		Categories: &categoryRepo{db: db},
		Expenses:   &expenseRepo{db: db},
		Budgets:    &budgetRepo{db: db},
		Insights:   &insightRepo{db: db},
		AuditLogs:  &auditLogRepo{db: db},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// translate maps GORM errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}

// affected returns ErrNotFound when a scoped write touched no rows.
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
