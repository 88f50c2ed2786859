package dto

import "time"

type PurchaseInput struct {
	OwnerID       string
	Date          time.Time
	InvoiceNumber string
	SupplierName  string
	Category      string
	ItemName      string
	Quantity      int
	UnitPrice     float64
	GSTPercentage float64
	PaymentMethod string
	Notes         string
}
