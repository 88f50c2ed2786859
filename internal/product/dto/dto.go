package dto

type ProductFilters struct {
	OwnerID      string
	Category     string
	SearchQuery  string // name or product code
	LowStockOnly bool
	SortBy       string // name, stock, created_at
	SortOrder    string // asc, desc
	Page         int
	PageSize     int
}
