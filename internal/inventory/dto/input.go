package dto

import "time"

// ProductSeed fills a product created on the fly by a stock change.
type ProductSeed struct {
	Category string
	Unit     string
}

// StockChange is one ledger movement requested by a purchase, sale, return or
// manual adjustment. The product is resolved by ProductID when set, otherwise
// by owner and normalised ProductName.
type StockChange struct {
	ProductID       string
	ProductName     string
	Direction       string
	Quantity        int
	ReferenceType   string
	ReferenceID     string
	Notes           string
	MovementDate    time.Time
	CreateIfMissing bool
	Seed            ProductSeed
}

type AdjustStockInput struct {
	OwnerID      string
	ProductID    string
	Direction    string
	Quantity     int
	Notes        string
	MovementDate time.Time
}
