package models

import "spendwise/internal/types"

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether p is a known period.
func (p BudgetPeriod) Valid() bool {
	switch p {
	case BudgetPeriodWeekly, BudgetPeriodMonthly, BudgetPeriodYearly:
		return true
	}
	return false
}

// Budget caps spend in one category, or across all spend when CategoryID is
// nil, over a date window.
type Budget struct {
	Base
	UserID     string       `gorm:"type:uuid;not null;index" json:"userId"`
	CategoryID *string      `gorm:"type:uuid;index" json:"categoryId"`
	Amount     types.Money  `gorm:"type:decimal(12,2);not null" json:"amount" swaggertype:"number"`
	Period     BudgetPeriod `gorm:"size:10;not null;default:'monthly'" json:"period"`
	StartDate  types.Date   `gorm:"type:date;not null" json:"startDate" swaggertype:"string" format:"date"`
	EndDate    types.Date   `gorm:"type:date;not null" json:"endDate" swaggertype:"string" format:"date"`
}

// IsGeneral reports whether the budget covers all categories.
func (b *Budget) IsGeneral() bool {
	return b.CategoryID == nil
}
