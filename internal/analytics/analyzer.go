package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"spendwise/internal/models"
	"spendwise/internal/types"
)

const (
	// SavingsThresholdPercent is the period-over-period increase above which
	// a category is flagged as a savings opportunity.
	SavingsThresholdPercent = 20.0
	// GeneralBudgetName labels budgets that cover all categories.
	GeneralBudgetName = "general"
)

// SuggestedSavingRate is the share of current spend suggested as a saving.
var SuggestedSavingRate = decimal.RequireFromString("0.15")

var hundred = decimal.NewFromInt(100)

// CategoryTrend compares one category across two periods.
type CategoryTrend struct {
	CategoryName   string      `json:"categoryName"`
	CurrentAmount  types.Money `json:"currentAmount" swaggertype:"number"`
	PreviousAmount types.Money `json:"previousAmount" swaggertype:"number"`
	ChangeAmount   types.Money `json:"changeAmount" swaggertype:"number"`
	ChangePercent  float64     `json:"changePercent"`
}

// BudgetRef is a budget with its category name resolved. CategoryName is
// empty for general budgets. Spent, when set, is the spend already measured
// over the budget's own window and takes precedence over the period stats.
type BudgetRef struct {
	Budget       models.Budget
	CategoryName string
	Spent        *types.Money
}

// BudgetAnalysis is the state of one budget against actual spend.
type BudgetAnalysis struct {
	BudgetID           string              `json:"budgetId"`
	CategoryName       string              `json:"categoryName"`
	Period             models.BudgetPeriod `json:"period"`
	BudgetAmount       types.Money         `json:"budgetAmount" swaggertype:"number"`
	Spent              types.Money         `json:"spent" swaggertype:"number"`
	Remaining          types.Money         `json:"remaining" swaggertype:"number"`
	UtilizationPercent float64             `json:"utilizationPercent"`
	IsOverBudget       bool                `json:"isOverBudget"`
}

// SavingsOpportunity is a category whose spend rose past the threshold.
type SavingsOpportunity struct {
	CategoryName    string      `json:"categoryName"`
	CurrentAmount   types.Money `json:"currentAmount" swaggertype:"number"`
	ChangePercent   float64     `json:"changePercent"`
	SuggestedSaving types.Money `json:"suggestedSaving" swaggertype:"number"`
}

// Period is the inclusive date range an analysis covers.
type Period struct {
	Start types.Date `json:"start" swaggertype:"string" format:"date"`
	End   types.Date `json:"end" swaggertype:"string" format:"date"`
}

// Analysis is everything the insight formatter needs about two periods.
type Analysis struct {
	CurrentPeriod        *Period              `json:"currentPeriod,omitempty"`
	PreviousPeriod       *Period              `json:"previousPeriod,omitempty"`
	CurrentTotal         types.Money          `json:"currentTotal" swaggertype:"number"`
	PreviousTotal        types.Money          `json:"previousTotal" swaggertype:"number"`
	TotalChangePercent   float64              `json:"totalChangePercent"`
	CategoryBreakdown    []CategoryAmount     `json:"categoryBreakdown"`
	CategoryTrends       []CategoryTrend      `json:"categoryTrends"`
	Budgets              []BudgetAnalysis     `json:"budgets"`
	SavingsOpportunities []SavingsOpportunity `json:"savingsOpportunities"`
}

// ChangePercent returns (current - previous) / previous * 100 rounded to two
// places. It is 0 when previous is 0.
func ChangePercent(current, previous types.Money) float64 {
	if previous.IsZero() {
		return 0
	}
	change := current.Decimal().Sub(previous.Decimal()).Div(previous.Decimal()).Mul(hundred)
	return round2(change)
}

// CompareCategories pairs categories present in either period. The result is
// sorted by current amount descending, name ascending on ties.
func CompareCategories(current, previous []CategoryAmount) []CategoryTrend {
	prev := make(map[string]types.Money, len(previous))
	for _, c := range previous {
		prev[c.CategoryName] = c.Amount
	}

	trends := make([]CategoryTrend, 0, len(current)+len(previous))
	seen := make(map[string]bool, len(current))
	for _, c := range current {
		seen[c.CategoryName] = true
		trends = append(trends, newTrend(c.CategoryName, c.Amount, prev[c.CategoryName]))
	}
	for _, p := range previous {
		if !seen[p.CategoryName] {
			trends = append(trends, newTrend(p.CategoryName, types.Money{}, p.Amount))
		}
	}

	sort.SliceStable(trends, func(i, j int) bool {
		if c := trends[i].CurrentAmount.Cmp(trends[j].CurrentAmount); c != 0 {
			return c > 0
		}
		return trends[i].CategoryName < trends[j].CategoryName
	})
	return trends
}

func newTrend(name string, current, previous types.Money) CategoryTrend {
	return CategoryTrend{
		CategoryName:   name,
		CurrentAmount:  current,
		PreviousAmount: previous,
		ChangeAmount:   current.Sub(previous),
		ChangePercent:  ChangePercent(current, previous),
	}
}

// AnalyzeBudget compares spent with the budget amount. Remaining may be
// negative; utilization is 0 for a zero budget.
func AnalyzeBudget(ref BudgetRef, spent types.Money) BudgetAnalysis {
	name := ref.CategoryName
	if ref.Budget.IsGeneral() || name == "" {
		name = GeneralBudgetName
	}

	amount := ref.Budget.Amount
	var utilization float64
	if !amount.IsZero() {
		utilization = round2(spent.Decimal().Div(amount.Decimal()).Mul(hundred))
	}

	return BudgetAnalysis{
		BudgetID:           ref.Budget.ID,
		CategoryName:       name,
		Period:             ref.Budget.Period,
		BudgetAmount:       amount,
		Spent:              spent,
		Remaining:          amount.Sub(spent),
		UtilizationPercent: utilization,
		IsOverBudget:       spent.GreaterThan(amount),
	}
}

// BudgetSpent is the spend a budget is measured against: ref.Spent when set,
// otherwise the category's amount for a category budget or the total for a
// general budget.
func BudgetSpent(ref BudgetRef, stats Stats) types.Money {
	if ref.Spent != nil {
		return *ref.Spent
	}
	if ref.Budget.IsGeneral() || ref.CategoryName == "" {
		return stats.TotalSpent
	}
	return stats.AmountFor(ref.CategoryName)
}

// SavingsOpportunities returns the trends whose change exceeds
// SavingsThresholdPercent, in the order given.
func SavingsOpportunities(trends []CategoryTrend) []SavingsOpportunity {
	out := make([]SavingsOpportunity, 0)
	for _, t := range trends {
		if t.ChangePercent <= SavingsThresholdPercent {
			continue
		}
		out = append(out, SavingsOpportunity{
			CategoryName:    t.CategoryName,
			CurrentAmount:   t.CurrentAmount,
			ChangePercent:   t.ChangePercent,
			SuggestedSaving: types.NewMoney(t.CurrentAmount.Decimal().Mul(SuggestedSavingRate)),
		})
	}
	return out
}

// Analyze compares the current period with the previous one and measures
// every budget against its measured spend, falling back to current stats.
func Analyze(current, previous Stats, budgets []BudgetRef) Analysis {
	trends := CompareCategories(current.CategoryBreakdown, previous.CategoryBreakdown)

	analyses := make([]BudgetAnalysis, 0, len(budgets))
	for _, ref := range budgets {
		analyses = append(analyses, AnalyzeBudget(ref, BudgetSpent(ref, current)))
	}

	breakdown := current.CategoryBreakdown
	if breakdown == nil {
		breakdown = []CategoryAmount{}
	}

	return Analysis{
		CurrentTotal:         current.TotalSpent,
		PreviousTotal:        previous.TotalSpent,
		TotalChangePercent:   ChangePercent(current.TotalSpent, previous.TotalSpent),
		CategoryBreakdown:    breakdown,
		CategoryTrends:       trends,
		Budgets:              analyses,
		SavingsOpportunities: SavingsOpportunities(trends),
	}
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
