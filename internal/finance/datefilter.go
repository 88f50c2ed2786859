package finance

import (
	"time"

	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
)

const (
	FilterAll        = "all"
	FilterLast30Days = "last_30_days"
	FilterLast60Days = "last_60_days"
	FilterLast90Days = "last_90_days"
	FilterThisMonth  = "this_month"
	FilterLastMonth  = "last_month"
	FilterCustom     = "custom"
)

// DateRange is inclusive on both ends. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ResolveDateFilter turns a list filter into a date range relative to today.
func ResolveDateFilter(filter string, today time.Time, from, to *time.Time) (DateRange, error) {
	day := dateOnly(today, today.Location())

	switch filter {
	case "", FilterAll:
		return DateRange{}, nil
	case FilterLast30Days:
		return lastDays(day, 30), nil
	case FilterLast60Days:
		return lastDays(day, 60), nil
	case FilterLast90Days:
		return lastDays(day, 90), nil
	case FilterThisMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return DateRange{From: &start, To: &day}, nil
	case FilterLastMonth:
		thisMonth := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		start := thisMonth.AddDate(0, -1, 0)
		end := thisMonth.AddDate(0, 0, -1)
		return DateRange{From: &start, To: &end}, nil
	case FilterCustom:
		if from != nil && to != nil && to.Before(*from) {
			return DateRange{}, apperr.Validation("date_to must not be before date_from")
		}
		return DateRange{From: from, To: to}, nil
	default:
		return DateRange{}, apperr.Validation("unknown date filter %q", filter)
	}
}

func lastDays(day time.Time, n int) DateRange {
	start := day.AddDate(0, 0, -n)
	return DateRange{From: &start, To: &day}
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(dateOnly(*r.From, t.Location())) {
		return false
	}
	if r.To != nil && dateOnly(t, t.Location()).After(dateOnly(*r.To, t.Location())) {
		return false
	}
	return true
}

// FromFY converts a financial year into a range.
func FromFY(fy FinancialYear) DateRange {
	start, end := fy.Start, fy.End
	return DateRange{From: &start, To: &end}
}
