package dto

import "time"

type MovementFilters struct {
	OwnerID       string
	ProductID     string
	Direction     string
	ReferenceType string
	ReferenceID   string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}

// Holding is the net stock one purchase, sale or return has placed on a
// product. Quantity is signed: IN is positive.
type Holding struct {
	ProductID   string `db:"product_id"`
	ProductName string `db:"product_name"`
	Quantity    int    `db:"quantity"`
}

// Rebooking is the result of settling a record's stock.
type Rebooking struct {
	Outcomes []StockOutcome
	// Held reports whether the record's stock now sits on a product.
	Held bool
}

type OutcomeStatus string

const (
	StatusApplied OutcomeStatus = "APPLIED"
	// StatusProductCreated means the product was created by this change.
	StatusProductCreated  OutcomeStatus = "PRODUCT_CREATED"
	StatusProductNotFound OutcomeStatus = "PRODUCT_NOT_FOUND"
)

type StockOutcome struct {
	Status       OutcomeStatus `json:"status"`
	ProductID    string        `json:"product_id,omitempty"`
	ProductName  string        `json:"product_name"`
	StockBefore  int           `json:"stock_before"`
	StockAfter   int           `json:"stock_after"`
	MinimumStock int           `json:"minimum_stock"`
	MovementID   string        `json:"movement_id,omitempty"`
}

func (o StockOutcome) Moved() bool {
	return o.Status != StatusProductNotFound
}

func (o StockOutcome) LowStock() bool {
	return o.Moved() && o.StockAfter <= o.MinimumStock
}

type ProductStock struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	Unit         string `json:"unit"`
	OpeningStock int    `json:"opening_stock"`
	CurrentStock int    `json:"current_stock"`
	MinimumStock int    `json:"minimum_stock"`
	LowStock     bool   `json:"low_stock"`
}

// StockAudit compares the stored stock with what the movement log implies.
type StockAudit struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	OpeningStock    int    `json:"opening_stock"`
	TotalIn         int    `json:"total_in"`
	TotalOut        int    `json:"total_out"`
	ExpectedBalance int    `json:"expected_balance"`
	ExpectedStock   int    `json:"expected_stock"`
	RecordedBalance int    `json:"recorded_balance"`
	RecordedStock   int    `json:"recorded_stock"`
	Drift           int    `json:"drift"`
}

func (a StockAudit) Consistent() bool {
	return a.Drift == 0 && a.ExpectedBalance == a.RecordedBalance
}

// LowStockEvent is published when a change leaves a product at or below its minimum.
type LowStockEvent struct {
	EventType    string    `json:"event_type"`
	OwnerID      string    `json:"owner_id"`
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int       `json:"current_stock"`
	MinimumStock int       `json:"minimum_stock"`
	OccurredAt   time.Time `json:"occurred_at"`
}
