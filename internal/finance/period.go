package finance

import "time"

// PeriodQuery is the date scoping accepted by every list endpoint: an
// optional financial year narrowed further by a date filter.
type PeriodQuery struct {
	FinancialYear string
	DateFilter    string
	DateFrom      *time.Time
	DateTo        *time.Time
}

func (c FYCalendar) Resolve(q PeriodQuery, today time.Time) (DateRange, error) {
	r, err := ResolveDateFilter(q.DateFilter, today, q.DateFrom, q.DateTo)
	if err != nil {
		return DateRange{}, err
	}
	if q.FinancialYear == "" || q.FinancialYear == FilterAll {
		return r, nil
	}
	fy, err := c.Parse(q.FinancialYear)
	if err != nil {
		return DateRange{}, err
	}
	return r.Intersect(FromFY(fy)), nil
}

// Intersect narrows r to the part also covered by o. Disjoint ranges yield a
// range that contains nothing.
func (r DateRange) Intersect(o DateRange) DateRange {
	out := r
	if o.From != nil && (out.From == nil || o.From.After(*out.From)) {
		out.From = o.From
	}
	if o.To != nil && (out.To == nil || o.To.Before(*out.To)) {
		out.To = o.To
	}
	return out
}

// Empty reports whether no day can satisfy the range.
func (r DateRange) Empty() bool {
	return r.From != nil && r.To != nil && r.To.Before(*r.From)
}
