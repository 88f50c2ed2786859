package dto

import (
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	invdto "github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type ReturnFilters struct {
	OwnerID     string
	SearchQuery string // order id, customer, product or invoice
	ClaimStatus string
	Platform    string
	Period      finance.PeriodQuery
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}

type ReturnSummary struct {
	Count             int     `json:"count" db:"count"`
	TotalReturnAmount float64 `json:"total_return_amount" db:"total_return_amount"`
	TotalRefund       float64 `json:"total_refund" db:"total_refund"`
	TotalShippingFees float64 `json:"total_shipping_fees" db:"total_shipping_fees"`
	TotalClaims       float64 `json:"total_claims" db:"total_claims"`
	NetResult         float64 `json:"net_result" db:"net_result"`
}

type ReturnResult struct {
	Return   *model.SalesReturn    `json:"return"`
	Stock    []invdto.StockOutcome `json:"stock"`
	Warnings []string              `json:"warnings,omitempty"`
}
