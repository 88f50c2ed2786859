package inventory

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

// Repository is the ledger store. Product reads lock the row when called
// inside a transaction.
type Repository interface {
	// Product rows
	FindProductByKey(ctx context.Context, key model.ProductKey) (*model.Product, error)
	FindProductByID(ctx context.Context, ownerID, productID string) (*model.Product, error)
	ListProducts(ctx context.Context, ownerID string) ([]model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateStock(ctx context.Context, p *model.Product) error

	// Movements / Audit
	LogMovement(ctx context.Context, m *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	SumMovements(ctx context.Context, ownerID, productID string) (in, out int, err error)
	// Holdings nets the movements logged for referenceID per product and
	// drops products that net to zero.
	Holdings(ctx context.Context, ownerID, referenceID string) ([]dto.Holding, error)
}
