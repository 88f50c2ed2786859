package sale

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
)

type UseCase interface {
	CreateSale(ctx context.Context, input *dto.SaleInput) (*dto.SaleResult, error)
	GetSale(ctx context.Context, ownerID, id string) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, *dto.SaleSummary, error)
	UpdateSale(ctx context.Context, id string, input *dto.SaleInput) (*dto.SaleResult, error)
	DeleteSale(ctx context.Context, ownerID, id string) error
}
