package dto

import (
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	invdto "github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type SaleFilters struct {
	OwnerID     string
	SearchQuery string // customer, invoice, order id or product
	Platform    string
	Returned    *bool
	Period      finance.PeriodQuery
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}

type SaleSummary struct {
	Count                int     `json:"count" db:"count"`
	TotalSales           float64 `json:"total_sales" db:"total_sales"`
	TotalAmount          float64 `json:"total_amount" db:"total_amount"`
	TotalGST             float64 `json:"total_gst" db:"total_gst"`
	TotalCost            float64 `json:"total_cost" db:"total_cost"`
	TotalReceived        float64 `json:"total_received" db:"total_received"`
	TotalCommission      float64 `json:"total_commission" db:"total_commission"`
	TotalSellingExpenses float64 `json:"total_selling_expenses" db:"total_selling_expenses"`
	TotalProfit          float64 `json:"total_profit" db:"total_profit"`
}

type SaleResult struct {
	Sale     *model.Sale           `json:"sale"`
	Stock    []invdto.StockOutcome `json:"stock"`
	Warnings []string              `json:"warnings,omitempty"`
}
