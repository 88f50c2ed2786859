package category

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/category/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.ExpenseCategory) error
	FindByID(ctx context.Context, ownerID, id string) (*model.ExpenseCategory, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.ExpenseCategory, int, error)
	Update(ctx context.Context, category *model.ExpenseCategory) error
	Delete(ctx context.Context, ownerID, id string) error
	IsNameUnique(ctx context.Context, ownerID, name, excludeID string) (bool, error)
}
