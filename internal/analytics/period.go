package analytics

import (
	"time"

	"spendwise/internal/models"
	"spendwise/internal/types"
)

// MonthRange returns the first and last day of the month containing day.
func MonthRange(day types.Date) Period {
	return Period{Start: day.FirstOfMonth(), End: day.LastOfMonth()}
}

// PreviousMonthRange returns the month before the one containing day.
func PreviousMonthRange(day types.Date) Period {
	return MonthRange(day.FirstOfMonth().AddDate(0, 0, -1))
}

// PeriodWindow returns the calendar window of the given period containing
// day. Weeks start on Monday.
func PeriodWindow(period models.BudgetPeriod, day types.Date) Period {
	t := day.Time()
	switch period {
	case models.BudgetPeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Period{Start: start, End: start.AddDate(0, 0, 6)}
	case models.BudgetPeriodYearly:
		return Period{
			Start: types.NewDate(t.Year(), time.January, 1),
			End:   types.NewDate(t.Year(), time.December, 31),
		}
	default:
		return MonthRange(day)
	}
}

// Intersect clips p to other. ok is false when they do not overlap.
func (p Period) Intersect(other Period) (Period, bool) {
	out := p
	if other.Start.After(out.Start) {
		out.Start = other.Start
	}
	if other.End.Before(out.End) {
		out.End = other.End
	}
	if out.End.Before(out.Start) {
		return Period{}, false
	}
	return out, true
}
