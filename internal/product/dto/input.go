package dto

type CreateProductInput struct {
	OwnerID      string
	Name         string
	ProductCode  string
	Category     string
	Unit         string
	OpeningStock int
	MinimumStock *int
	Location     string
	Notes        string
}

// UpdateProductInput carries metadata only; stock moves through the ledger.
type UpdateProductInput struct {
	ID           string
	OwnerID      string
	Name         string
	ProductCode  string
	Category     string
	Unit         string
	MinimumStock *int
	Location     string
	Notes        string
}
