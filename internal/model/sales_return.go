package model

import "time"

const (
	ClaimNone     = "No Claim"
	ClaimPending  = "Pending"
	ClaimApproved = "Approved"
	ClaimRejected = "Rejected"
)

func ValidClaimStatus(s string) bool {
	switch s {
	case ClaimNone, ClaimPending, ClaimApproved, ClaimRejected:
		return true
	}
	return false
}

type SalesReturn struct {
	BaseModel
	OwnerID           string    `db:"owner_id" json:"owner_id"`
	Date              time.Time `db:"date" json:"date"`
	SaleID            *string   `db:"sale_id" json:"sale_id"`
	OrderID           string    `db:"order_id" json:"order_id"`
	InvoiceNumber     string    `db:"invoice_number" json:"invoice_number"`
	CustomerName      string    `db:"customer_name" json:"customer_name"`
	Platform          string    `db:"platform" json:"platform"`
	ProductName       string    `db:"product_name" json:"product_name"`
	Quantity          int       `db:"quantity" json:"quantity"`
	UnitPrice         float64   `db:"unit_price" json:"unit_price"`
	GSTPercentage     float64   `db:"gst_percentage" json:"gst_percentage"`
	Amount            float64   `db:"amount" json:"amount"`
	GSTAmount         float64   `db:"gst_amount" json:"gst_amount"`
	TotalAmount       float64   `db:"total_amount" json:"total_amount"`
	ReturnShippingFee float64   `db:"return_shipping_fee" json:"return_shipping_fee"`
	RefundAmount      float64   `db:"refund_amount" json:"refund_amount"`
	ClaimAmount       float64   `db:"claim_amount" json:"claim_amount"`
	ClaimStatus       string    `db:"claim_status" json:"claim_status"`
	NetLoss           float64   `db:"net_loss" json:"net_loss"`
	Reason            string    `db:"reason" json:"reason"`
	Notes             string    `db:"notes" json:"notes"`
	// Restocked records whether creating this return moved stock back in.
	Restocked bool `db:"restocked" json:"restocked"`
}
