package sale

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Sale, error)
	FindByOrderID(ctx context.Context, ownerID, orderID, excludeID string) (*model.Sale, error)
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
	Summarize(ctx context.Context, filters *dto.SaleFilters) (*dto.SaleSummary, error)
	Update(ctx context.Context, s *model.Sale) error
	Delete(ctx context.Context, ownerID, id string) error

	// SetReturn links a sale to its return; a nil returnID clears the link.
	SetReturn(ctx context.Context, ownerID, saleID string, returnID *string) error
}
