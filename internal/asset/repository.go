package asset

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, a *model.Asset) error
	FindByID(ctx context.Context, ownerID, id string) (*model.Asset, error)
	FindAll(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, error)
	Update(ctx context.Context, a *model.Asset) error
	Delete(ctx context.Context, ownerID, id string) error
}
