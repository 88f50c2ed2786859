package dto

import (
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	invdto "github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type PurchaseFilters struct {
	OwnerID     string
	SearchQuery string // supplier, item or invoice number
	Category    string
	Period      finance.PeriodQuery
	StartDate   *time.Time // resolved from Period
	EndDate     *time.Time
	Page        int
	PageSize    int
}

type PurchaseSummary struct {
	Count       int     `json:"count" db:"count"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`
	TotalGST    float64 `json:"total_gst" db:"total_gst"`
	GrandTotal  float64 `json:"grand_total" db:"grand_total"`
}

type PurchaseResult struct {
	Purchase *model.Purchase       `json:"purchase"`
	Stock    []invdto.StockOutcome `json:"stock"`
}
