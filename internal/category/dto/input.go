package dto

type CreateCategoryInput struct {
	OwnerID          string
	CategoryName     string
	IsSellingExpense bool
}

type UpdateCategoryInput struct {
	ID               string
	OwnerID          string
	CategoryName     string
	IsSellingExpense bool
}
