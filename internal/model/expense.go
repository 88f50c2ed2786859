package model

import "time"

type Expense struct {
	BaseModel
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	Date          time.Time `db:"date" json:"date"`
	Category      string    `db:"category" json:"category"`
	Description   string    `db:"description" json:"description"`
	Amount        float64   `db:"amount" json:"amount"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Notes         string    `db:"notes" json:"notes"`
}

type ExpenseCategory struct {
	BaseModel
	OwnerID          string `db:"owner_id" json:"owner_id"`
	CategoryName     string `db:"category_name" json:"category_name"`
	IsSellingExpense bool   `db:"is_selling_expense" json:"is_selling_expense"`
}
