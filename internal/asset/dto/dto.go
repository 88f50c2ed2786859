package dto

type AssetFilters struct {
	OwnerID     string
	Category    string
	SearchQuery string // asset name or notes
	Page        int
	PageSize    int
}

type AssetSummary struct {
	Count              int     `json:"count"`
	TotalPurchaseValue float64 `json:"total_purchase_value"`
	TotalAccumulated   float64 `json:"total_accumulated_depreciation"`
	TotalCurrentValue  float64 `json:"total_current_value"`
}
