package expense

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/expense/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type UseCase interface {
	CreateExpense(ctx context.Context, input *dto.ExpenseInput) (*model.Expense, error)
	GetExpense(ctx context.Context, ownerID, id string) (*model.Expense, error)
	ListExpenses(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, int, *dto.ExpenseSummary, error)
	UpdateExpense(ctx context.Context, id string, input *dto.ExpenseInput) (*model.Expense, error)
	DeleteExpense(ctx context.Context, ownerID, id string) error
}
