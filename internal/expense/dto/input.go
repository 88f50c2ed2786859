package dto

import "time"

type ExpenseInput struct {
	OwnerID       string
	Date          time.Time
	Category      string
	Description   string
	Amount        float64
	PaymentMethod string
	Notes         string
}
