package dto

import "time"

// ReturnInput describes a marketplace return. Blank product fields are taken
// from the sale with the same order id.
type ReturnInput struct {
	OwnerID           string
	Date              time.Time
	OrderID           string
	InvoiceNumber     string
	CustomerName      string
	Platform          string
	ProductName       string
	Quantity          int
	UnitPrice         float64
	GSTPercentage     *float64
	ReturnShippingFee float64
	ClaimAmount       float64
	ClaimStatus       string
	Reason            string
	Notes             string
}
