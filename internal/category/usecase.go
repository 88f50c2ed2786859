package category

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/category/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.ExpenseCategory, error)
	GetCategory(ctx context.Context, ownerID, id string) (*model.ExpenseCategory, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.ExpenseCategory, int, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.ExpenseCategory, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
}
