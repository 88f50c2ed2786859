package dto

import "time"

type AssetInput struct {
	OwnerID            string
	AssetName          string
	Category           string
	PurchaseDate       time.Time
	PurchasePrice      float64
	GSTPercentage      float64
	DepreciationMethod string
	DepreciationRate   float64
	UsefulLifeYears    float64
	Notes              string
}
