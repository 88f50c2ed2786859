package purchase

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/purchase/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Purchase, error)
	FindAll(ctx context.Context, filters *dto.PurchaseFilters) ([]model.Purchase, int, error)
	Summarize(ctx context.Context, filters *dto.PurchaseFilters) (*dto.PurchaseSummary, error)
	Update(ctx context.Context, p *model.Purchase) error
	Delete(ctx context.Context, ownerID, id string) error
}
