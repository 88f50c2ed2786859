package dto

import "time"

type SaleInput struct {
	OwnerID                string
	Date                   time.Time
	InvoiceNumber          string
	OrderID                string
	CustomerName           string
	Platform               string
	ProductName            string
	Quantity               int
	UnitPrice              float64
	GSTPercentage          float64
	GSTInclusive           bool
	CostPrice              float64
	AmountReceived         float64
	SellingExpenseAmount   float64
	SellingExpenseCategory string
	SellingExpenseNotes    string
	PaymentMethod          string
	Notes                  string
}
