package dto

import "time"

// Scope bounds a report to one owner and an optional inclusive date range.
type Scope struct {
	OwnerID string
	From    *time.Time
	To      *time.Time
}

// Totals are the raw sums a report is derived from. Amount fields are the
// GST-exclusive base, Total fields include GST.
type Totals struct {
	SalesCount      int     `db:"sales_count"`
	SalesAmount     float64 `db:"sales_amount"`
	SalesTotal      float64 `db:"sales_total"`
	SalesProfit     float64 `db:"sales_profit"`
	PurchasesAmount float64 `db:"purchases_amount"`
	PurchasesTotal  float64 `db:"purchases_total"`
	ExpensesTotal   float64 `db:"expenses_total"`
	ReturnsTotal    float64 `db:"returns_total"`
	ReturnsNetLoss  float64 `db:"returns_net_loss"`
}

type PlatformTotal struct {
	Platform string  `db:"platform" json:"name"`
	Amount   float64 `db:"amount" json:"value"`
}

// MonthlyAmount is one month bucket; Month is the first day of the month.
type MonthlyAmount struct {
	Month  time.Time `db:"month"`
	Amount float64   `db:"amount"`
}

type MonthlyPoint struct {
	Month     string  `json:"month"`
	Sales     float64 `json:"sales"`
	Purchases float64 `json:"purchases"`
	Profit    float64 `json:"profit"`
}

type Dashboard struct {
	FinancialYear  string          `json:"financial_year"`
	TotalSales     float64         `json:"total_sales"`
	TotalPurchases float64         `json:"total_purchases"`
	TotalExpenses  float64         `json:"total_expenses"`
	NetProfit      float64         `json:"net_profit"`
	SalesProfit    float64         `json:"sales_profit"`
	ReturnsNetLoss float64         `json:"returns_net_loss"`
	AssetsValue    float64         `json:"assets_value"`
	PlatformSales  []PlatformTotal `json:"platform_sales"`
	Monthly        []MonthlyPoint  `json:"monthly"`
}

type ProfitAndLoss struct {
	FinancialYear  string    `json:"financial_year"`
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	TotalSales     float64   `json:"total_sales"`
	TotalPurchases float64   `json:"total_purchases"`
	GrossProfit    float64   `json:"gross_profit"`
	TotalExpenses  float64   `json:"total_expenses"`
	NetProfit      float64   `json:"net_profit"`
}

type BalanceSheet struct {
	FinancialYear string    `json:"financial_year"`
	AsOf          time.Time `json:"as_of"`
	AssetsValue   float64   `json:"assets_value"`
	AssetsCost    float64   `json:"assets_cost"`
	Depreciation  float64   `json:"accumulated_depreciation"`
	Capital       float64   `json:"capital"`
}
