package product

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, ownerID, id string) error

	// Name uniqueness, case-insensitive
	IsNameUnique(ctx context.Context, key model.ProductKey, excludeID string) (bool, error)
	CountMovements(ctx context.Context, ownerID, productID string) (int, error)
}
