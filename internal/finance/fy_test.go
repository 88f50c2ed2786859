package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
)

func TestFYCalendarFor(t *testing.T) {
	cal := NewFYCalendar(4)
	cases := []struct {
		day  time.Time
		want string
	}{
		{date(2026, 3, 31), "2025-26"},
		{date(2026, 4, 1), "2026-27"},
		{date(2025, 12, 31), "2025-26"},
		{date(2099, 6, 1), "2099-00"},
	}
	for _, tc := range cases {
		if got := cal.For(tc.day).Label; got != tc.want {
			t.Fatalf("For(%s) = %s, want %s", tc.day.Format("2006-01-02"), got, tc.want)
		}
	}

	if got := NewFYCalendar(1).For(date(2025, 6, 1)).Label; got != "2025" {
		t.Fatalf("calendar-year label = %s, want 2025", got)
	}
	if got := NewFYCalendar(13).StartMonth; got != time.April {
		t.Fatalf("out of range start month defaulted to %s", got)
	}
}

func TestFYCalendarParse(t *testing.T) {
	cal := NewFYCalendar(4)

	fy, err := cal.Parse("2025-26")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !fy.Start.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)) || !fy.End.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("Parse() range = %s..%s", fy.Start, fy.End)
	}

	for _, bad := range []string{"2025-27", "2025", "25-26", "abcd-ef", ""} {
		if _, err := cal.Parse(bad); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("Parse(%q) err = %v, want validation error", bad, err)
		}
	}

	if _, err := NewFYCalendar(1).Parse("2025-26"); err == nil {
		t.Fatal("calendar-year calendar accepted a split label")
	}
}

func TestFinancialYearContainsAndMonths(t *testing.T) {
	fy := NewFYCalendar(4).For(date(2025, 8, 10))
	if !fy.Contains(date(2025, 4, 1)) || !fy.Contains(date(2026, 3, 31)) {
		t.Fatal("boundaries must be inside the year")
	}
	if fy.Contains(date(2025, 3, 31)) || fy.Contains(date(2026, 4, 1)) {
		t.Fatal("days outside the year reported as inside")
	}

	months := fy.Months()
	if len(months) != 12 || months[0].Month() != time.April || months[11].Month() != time.March {
		t.Fatalf("Months() = %v", months)
	}
}

func TestFYCalendarRecent(t *testing.T) {
	years := NewFYCalendar(4).Recent(date(2026, 1, 10), 3)
	want := []string{"2025-26", "2024-25", "2023-24"}
	for i, fy := range years {
		if fy.Label != want[i] {
			t.Fatalf("Recent()[%d] = %s, want %s", i, fy.Label, want[i])
		}
	}
}
