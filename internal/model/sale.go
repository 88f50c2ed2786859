package model

import "time"

const DefaultPlatform = "Meesho"

type Sale struct {
	BaseModel
	OwnerID                string    `db:"owner_id" json:"owner_id"`
	Date                   time.Time `db:"date" json:"date"`
	InvoiceNumber          string    `db:"invoice_number" json:"invoice_number"`
	OrderID                *string   `db:"order_id" json:"order_id"`
	CustomerName           string    `db:"customer_name" json:"customer_name"`
	Platform               string    `db:"platform" json:"platform"`
	ProductName            string    `db:"product_name" json:"product_name"`
	Quantity               int       `db:"quantity" json:"quantity"`
	UnitPrice              float64   `db:"unit_price" json:"unit_price"`
	GSTPercentage          float64   `db:"gst_percentage" json:"gst_percentage"`
	GSTInclusive           bool      `db:"gst_inclusive" json:"gst_inclusive"`
	Amount                 float64   `db:"amount" json:"amount"`
	GSTAmount              float64   `db:"gst_amount" json:"gst_amount"`
	TotalAmount            float64   `db:"total_amount" json:"total_amount"`
	CostPrice              float64   `db:"cost_price" json:"cost_price"`
	AmountReceived         float64   `db:"amount_received" json:"amount_received"`
	PlatformCommission     float64   `db:"platform_commission" json:"platform_commission"`
	SellingExpenseAmount   float64   `db:"selling_expense_amount" json:"selling_expense_amount"`
	SellingExpenseCategory string    `db:"selling_expense_category" json:"selling_expense_category"`
	SellingExpenseNotes    string    `db:"selling_expense_notes" json:"selling_expense_notes"`
	ProfitAmount           float64   `db:"profit_amount" json:"profit_amount"`
	PaymentMethod          string    `db:"payment_method" json:"payment_method"`
	Notes                  string    `db:"notes" json:"notes"`
	IsReturned             bool      `db:"is_returned" json:"is_returned"`
	ReturnID               *string   `db:"return_id" json:"return_id"`
}
