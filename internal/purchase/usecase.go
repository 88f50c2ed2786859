package purchase

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/purchase/dto"
)

type UseCase interface {
	CreatePurchase(ctx context.Context, input *dto.PurchaseInput) (*dto.PurchaseResult, error)
	GetPurchase(ctx context.Context, ownerID, id string) (*model.Purchase, error)
	ListPurchases(ctx context.Context, filters *dto.PurchaseFilters) ([]model.Purchase, int, *dto.PurchaseSummary, error)
	UpdatePurchase(ctx context.Context, id string, input *dto.PurchaseInput) (*dto.PurchaseResult, error)
	DeletePurchase(ctx context.Context, ownerID, id string) error
	DuplicatePurchase(ctx context.Context, ownerID, id string) (*dto.PurchaseResult, error)
}
