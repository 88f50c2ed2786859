package model

import "time"

const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

const (
	RefPurchase          = "PURCHASE"
	RefPurchaseEdit      = "PURCHASE_EDIT"
	RefPurchaseDeleted   = "PURCHASE_DELETED"
	RefSale              = "SALE"
	RefSaleEdit          = "SALE_EDIT"
	RefSaleDeleted       = "SALE_DELETED"
	RefSaleReturn        = "SALE_RETURN"
	RefSaleReturnEdit    = "SALE_RETURN_EDIT"
	RefSaleReturnDeleted = "SALE_RETURN_DELETED"
	RefAdjustment        = "ADJUSTMENT"
)

// StockMovement is one append-only entry of the stock ledger.
type StockMovement struct {
	ID            string    `db:"id" json:"id"`
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	ProductID     string    `db:"product_id" json:"product_id"`
	ProductName   string    `db:"product_name" json:"product_name"`
	Direction     string    `db:"direction" json:"movement_type"`
	Quantity      int       `db:"quantity" json:"quantity"`
	ReferenceType string    `db:"reference_type" json:"reference_type"`
	ReferenceID   string    `db:"reference_id" json:"reference_id"`
	StockBefore   int       `db:"stock_before" json:"stock_before"`
	StockAfter    int       `db:"stock_after" json:"stock_after"`
	Notes         string    `db:"notes" json:"notes"`
	MovementDate  time.Time `db:"movement_date" json:"movement_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Signed returns the movement's effect on the ledger balance.
func (m *StockMovement) Signed() int {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}
