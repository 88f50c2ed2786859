package asset

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type UseCase interface {
	CreateAsset(ctx context.Context, input *dto.AssetInput) (*model.Asset, error)
	GetAsset(ctx context.Context, ownerID, id string) (*model.Asset, error)
	ListAssets(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, *dto.AssetSummary, error)
	UpdateAsset(ctx context.Context, id string, input *dto.AssetInput) (*model.Asset, error)
	DeleteAsset(ctx context.Context, ownerID, id string) error

	// Valuation totals every asset of the owner bought on or before asOf,
	// depreciated up to asOf.
	Valuation(ctx context.Context, ownerID string, asOf time.Time) (*dto.AssetSummary, error)
}
