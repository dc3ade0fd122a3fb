// Package analytics turns expense records into spending statistics and
// compares periods against each other and against budgets. Everything here
// is pure: no I/O, no clocks, no shared state.
package analytics

import (
	"sort"

	"spendwise/internal/models"
	"spendwise/internal/repository"
	"spendwise/internal/types"
)

// UncategorizedName labels expenses without a resolvable category.
const UncategorizedName = "Uncategorized"

// CategoryAmount is the spend of one category within a range.
type CategoryAmount struct {
	CategoryName string      `json:"categoryName"`
	Amount       types.Money `json:"amount" swaggertype:"number"`
	Color        string      `json:"color"`
}

// DailyAmount is the spend of one calendar day.
type DailyAmount struct {
	Date   types.Date  `json:"date" swaggertype:"string" format:"date"`
	Amount types.Money `json:"amount" swaggertype:"number"`
}

// Stats summarizes the expenses of a range.
type Stats struct {
	TotalSpent        types.Money      `json:"totalSpent" swaggertype:"number"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	DailyTrend        []DailyAmount    `json:"dailyTrend"`
}

// Aggregate sums records in a single pass. The breakdown is sorted by amount
// descending (name ascending on ties) and the trend by date ascending. Both
// lists are non-nil even when records is empty.
func Aggregate(records []repository.ExpenseRecord) Stats {
	type bucket struct {
		name   string
		color  string
		amount types.Money
	}

	var total types.Money
	categories := make(map[string]*bucket)
	days := make(map[types.Date]types.Money)

	for _, r := range records {
		total = total.Add(r.Amount)

		key, name, color := "", UncategorizedName, models.DefaultCategoryColor
		if r.CategoryID != nil && r.CategoryName != nil {
			key, name = *r.CategoryID, *r.CategoryName
			if r.CategoryColor != nil && *r.CategoryColor != "" {
				color = *r.CategoryColor
			}
		}

		b, ok := categories[key]
		if !ok {
			b = &bucket{name: name, color: color}
			categories[key] = b
		}
		b.amount = b.amount.Add(r.Amount)

		days[r.Date] = days[r.Date].Add(r.Amount)
	}

	breakdown := make([]CategoryAmount, 0, len(categories))
	for _, b := range categories {
		breakdown = append(breakdown, CategoryAmount{CategoryName: b.name, Amount: b.amount, Color: b.color})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if c := breakdown[i].Amount.Cmp(breakdown[j].Amount); c != 0 {
			return c > 0
		}
		return breakdown[i].CategoryName < breakdown[j].CategoryName
	})

	trend := make([]DailyAmount, 0, len(days))
	for d, amount := range days {
		trend = append(trend, DailyAmount{Date: d, Amount: amount})
	}
	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Date.Before(trend[j].Date)
	})

	return Stats{
		TotalSpent:        total,
		CategoryBreakdown: breakdown,
		DailyTrend:        trend,
	}
}

// AmountFor returns the spend of the named category, zero when absent.
func (s Stats) AmountFor(categoryName string) types.Money {
	for _, c := range s.CategoryBreakdown {
		if c.CategoryName == categoryName {
			return c.Amount
		}
	}
	return types.Money{}
}

// SumCategory returns the total of the records filed under categoryID, or of
// every record when categoryID is nil.
func SumCategory(records []repository.ExpenseRecord, categoryID *string) types.Money {
	var total types.Money
	for _, r := range records {
		if categoryID != nil && (r.CategoryID == nil || *r.CategoryID != *categoryID) {
			continue
		}
		total = total.Add(r.Amount)
	}
	return total
}

// InPeriod returns the records dated within p, inclusive.
func InPeriod(records []repository.ExpenseRecord, p Period) []repository.ExpenseRecord {
	out := make([]repository.ExpenseRecord, 0, len(records))
	for _, r := range records {
		if r.Date.Before(p.Start) || r.Date.After(p.End) {
			continue
		}
		out = append(out, r)
	}
	return out
}
