package model

import "time"

type Asset struct {
	BaseModel
	OwnerID            string    `db:"owner_id" json:"owner_id"`
	AssetName          string    `db:"asset_name" json:"asset_name"`
	Category           string    `db:"category" json:"category"`
	PurchaseDate       time.Time `db:"purchase_date" json:"purchase_date"`
	PurchasePrice      float64   `db:"purchase_price" json:"purchase_price"`
	GSTPercentage      float64   `db:"gst_percentage" json:"gst_percentage"`
	GSTAmount          float64   `db:"gst_amount" json:"gst_amount"`
	TotalCost          float64   `db:"total_cost" json:"total_cost"`
	DepreciationMethod string    `db:"depreciation_method" json:"depreciation_method"`
	DepreciationRate   float64   `db:"depreciation_rate" json:"depreciation_rate"`
	UsefulLifeYears    float64   `db:"useful_life_years" json:"useful_life_years"`
	Notes              string    `db:"notes" json:"notes"`

	// Derived on read.
	MonthsElapsed           int     `db:"-" json:"months_elapsed"`
	AccumulatedDepreciation float64 `db:"-" json:"accumulated_depreciation"`
	CurrentValue            float64 `db:"-" json:"current_value"`
}
