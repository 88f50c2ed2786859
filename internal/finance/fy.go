package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
)

// FYCalendar knows on which month the financial year starts. Indian books
// start in April; a January start gives plain calendar years.
type FYCalendar struct {
	StartMonth time.Month
}

func NewFYCalendar(startMonth int) FYCalendar {
	if startMonth < 1 || startMonth > 12 {
		startMonth = int(time.April)
	}
	return FYCalendar{StartMonth: time.Month(startMonth)}
}

type FinancialYear struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"` // last day, inclusive
}

func (c FYCalendar) yearStarting(year int, loc *time.Location) FinancialYear {
	start := time.Date(year, c.StartMonth, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(1, 0, -1)

	label := strconv.Itoa(year)
	if c.StartMonth != time.January {
		label = fmt.Sprintf("%d-%02d", year, (year+1)%100)
	}
	return FinancialYear{Label: label, Start: start, End: end}
}

// For returns the financial year containing date.
func (c FYCalendar) For(date time.Time) FinancialYear {
	year := date.Year()
	if date.Month() < c.StartMonth {
		year--
	}
	return c.yearStarting(year, date.Location())
}

func (c FYCalendar) Current(now time.Time) FinancialYear {
	return c.For(now)
}

// Recent lists the current year and the n-1 before it, newest first.
func (c FYCalendar) Recent(now time.Time, n int) []FinancialYear {
	cur := c.For(now)
	years := make([]FinancialYear, 0, n)
	for i := 0; i < n; i++ {
		years = append(years, c.yearStarting(cur.Start.Year()-i, now.Location()))
	}
	return years
}

// Parse accepts labels produced by this calendar ("2025-26", or "2025" for
// calendar years).
func (c FYCalendar) Parse(label string) (FinancialYear, error) {
	label = strings.TrimSpace(label)
	head, tail, split := strings.Cut(label, "-")

	year, err := strconv.Atoi(head)
	if err != nil || len(head) != 4 {
		return FinancialYear{}, apperr.Validation("invalid financial year %q", label)
	}

	fy := c.yearStarting(year, time.Local)
	if split != (c.StartMonth != time.January) {
		return FinancialYear{}, apperr.Validation("invalid financial year %q", label)
	}
	if split && tail != fmt.Sprintf("%02d", (year+1)%100) {
		return FinancialYear{}, apperr.Validation("invalid financial year %q", label)
	}
	return fy, nil
}

func (fy FinancialYear) Contains(t time.Time) bool {
	d := dateOnly(t, fy.Start.Location())
	return !d.Before(fy.Start) && !d.After(fy.End)
}

// Months returns the first day of each month in the year, in order.
func (fy FinancialYear) Months() []time.Time {
	months := make([]time.Time, 12)
	for i := range months {
		months[i] = fy.Start.AddDate(0, i, 0)
	}
	return months
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
