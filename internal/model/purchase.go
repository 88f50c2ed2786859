package model

import "time"

type Purchase struct {
	BaseModel
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	Date          time.Time `db:"date" json:"date"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	SupplierName  string    `db:"supplier_name" json:"supplier_name"`
	Category      string    `db:"category" json:"category"`
	ItemName      string    `db:"item_name" json:"item_name"`
	Quantity      int       `db:"quantity" json:"quantity"`
	UnitPrice     float64   `db:"unit_price" json:"unit_price"`
	GSTPercentage float64   `db:"gst_percentage" json:"gst_percentage"`
	Amount        float64   `db:"amount" json:"amount"`
	GSTAmount     float64   `db:"gst_amount" json:"gst_amount"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Notes         string    `db:"notes" json:"notes"`
}
