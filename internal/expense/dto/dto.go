package dto

import (
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
)

type ExpenseFilters struct {
	OwnerID     string
	SearchQuery string // description or notes
	Category    string
	Period      finance.PeriodQuery
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}

type ExpenseSummary struct {
	Count       int     `json:"count" db:"count"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`
}
