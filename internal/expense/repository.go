package expense

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/expense/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, e *model.Expense) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Expense, error)
	FindAll(ctx context.Context, filters *dto.ExpenseFilters) ([]model.Expense, int, error)
	Summarize(ctx context.Context, filters *dto.ExpenseFilters) (*dto.ExpenseSummary, error)
	Update(ctx context.Context, e *model.Expense) error
	Delete(ctx context.Context, ownerID, id string) error
}
