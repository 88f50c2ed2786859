package dto

type CategoryFilters struct {
	OwnerID string
	// SellingOnly restricts the list to categories offered on the sale form.
	SellingOnly bool
	Page        int
	PageSize    int
}
