package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
)

func TestResolveDateFilter(t *testing.T) {
	today := time.Date(2026, 3, 15, 17, 30, 0, 0, time.UTC)

	cases := []struct {
		filter   string
		from, to time.Time
	}{
		{FilterLast30Days, date(2026, 2, 13), date(2026, 3, 15)},
		{FilterLast90Days, date(2025, 12, 15), date(2026, 3, 15)},
		{FilterThisMonth, date(2026, 3, 1), date(2026, 3, 15)},
		{FilterLastMonth, date(2026, 2, 1), date(2026, 2, 28)},
	}
	for _, tc := range cases {
		r, err := ResolveDateFilter(tc.filter, today, nil, nil)
		if err != nil {
			t.Fatalf("%s: %v", tc.filter, err)
		}
		if !r.From.Equal(tc.from) || !r.To.Equal(tc.to) {
			t.Fatalf("%s: got %s..%s, want %s..%s", tc.filter, r.From, r.To, tc.from, tc.to)
		}
	}

	r, err := ResolveDateFilter(FilterAll, today, nil, nil)
	if err != nil || r.From != nil || r.To != nil {
		t.Fatalf("all: got %+v, %v", r, err)
	}
}

func TestResolveDateFilterErrors(t *testing.T) {
	today := date(2026, 3, 15)
	from, to := date(2026, 3, 10), date(2026, 3, 1)

	if _, err := ResolveDateFilter(FilterCustom, today, &from, &to); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("reversed custom range: err = %v", err)
	}
	if _, err := ResolveDateFilter("yesterday", today, nil, nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown filter: err = %v", err)
	}
}

func TestDateRangeContains(t *testing.T) {
	from, to := date(2026, 2, 1), date(2026, 2, 28)
	r := DateRange{From: &from, To: &to}

	if !r.Contains(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("last day with a clock time must be inside")
	}
	if r.Contains(date(2026, 3, 1)) || r.Contains(date(2026, 1, 31)) {
		t.Fatal("outside days reported as inside")
	}
	if !(DateRange{}).Contains(date(1990, 1, 1)) {
		t.Fatal("open range must contain everything")
	}
}

func TestResolvePeriod(t *testing.T) {
	cal := NewFYCalendar(4)
	today := date(2026, 3, 15)

	r, err := cal.Resolve(PeriodQuery{FinancialYear: "2025-26", DateFilter: FilterThisMonth}, today)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !r.From.Equal(date(2026, 3, 1)) || !r.To.Equal(date(2026, 3, 15)) {
		t.Fatalf("Resolve() = %s..%s", r.From, r.To)
	}

	r, err = cal.Resolve(PeriodQuery{FinancialYear: "2024-25", DateFilter: FilterThisMonth}, today)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !r.Empty() {
		t.Fatalf("disjoint year and filter should be empty, got %s..%s", r.From, r.To)
	}

	if _, err := cal.Resolve(PeriodQuery{FinancialYear: "bogus"}, today); err == nil {
		t.Fatal("bad financial year accepted")
	}
}
