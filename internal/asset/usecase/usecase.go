package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/asset"
	"github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultCategory        = "Computer"
	defaultRate            = 10
	defaultUsefulLifeYears = 5
)

type assetUseCase struct {
	repo   asset.Repository
	cache  cache.Store
	logger logger.ZapLogger
	now    func() time.Time
}

func NewAssetUseCase(repo asset.Repository, store cache.Store, log logger.ZapLogger) asset.UseCase {
	return &assetUseCase{
		repo:   repo,
		cache:  store,
		logger: log,
		now:    time.Now,
	}
}

func validate(input *dto.AssetInput) error {
	method := finance.DepreciationMethod(input.DepreciationMethod)
	switch {
	case strings.TrimSpace(input.AssetName) == "":
		return apperr.Validation("asset_name is required")
	case input.PurchaseDate.IsZero():
		return apperr.Validation("purchase_date is required")
	case input.PurchasePrice < 0:
		return apperr.Validation("purchase_price cannot be negative")
	case input.GSTPercentage < 0 || input.GSTPercentage > 100:
		return apperr.Validation("gst_percentage must be between 0 and 100")
	case input.DepreciationMethod != "" && !method.Valid():
		return apperr.Validation("invalid depreciation_method %q", input.DepreciationMethod)
	case input.DepreciationRate < 0 || input.DepreciationRate > 100:
		return apperr.Validation("depreciation_rate must be between 0 and 100")
	case input.UsefulLifeYears < 0:
		return apperr.Validation("useful_life_years cannot be negative")
	}
	return nil
}

func fill(a *model.Asset, input *dto.AssetInput) {
	a.OwnerID = input.OwnerID
	a.AssetName = strings.TrimSpace(input.AssetName)
	a.Category = strings.TrimSpace(input.Category)
	if a.Category == "" {
		a.Category = defaultCategory
	}
	a.PurchaseDate = input.PurchaseDate
	a.PurchasePrice = input.PurchasePrice
	a.GSTPercentage = input.GSTPercentage
	gst, total := finance.AssetGST(input.PurchasePrice, input.GSTPercentage)
	a.GSTAmount = finance.Round2(gst)
	a.TotalCost = finance.Round2(total)
	a.DepreciationMethod = input.DepreciationMethod
	if a.DepreciationMethod == "" {
		a.DepreciationMethod = string(finance.StraightLine)
	}
	a.DepreciationRate = input.DepreciationRate
	if a.DepreciationRate == 0 {
		a.DepreciationRate = defaultRate
	}
	a.UsefulLifeYears = input.UsefulLifeYears
	if a.UsefulLifeYears == 0 {
		a.UsefulLifeYears = defaultUsefulLifeYears
	}
	a.Notes = input.Notes
}

// value fills the derived depreciation fields as of asOf.
func value(a *model.Asset, asOf time.Time) {
	d := finance.Depreciate(finance.AssetInput{
		PurchasePrice:   a.PurchasePrice,
		PurchaseDate:    a.PurchaseDate,
		Method:          finance.DepreciationMethod(a.DepreciationMethod),
		AnnualRate:      a.DepreciationRate,
		UsefulLifeYears: a.UsefulLifeYears,
	}, asOf).Rounded()
	a.MonthsElapsed = d.MonthsElapsed
	a.AccumulatedDepreciation = d.Accumulated
	a.CurrentValue = d.CurrentValue
}

func (uc *assetUseCase) CreateAsset(ctx context.Context, input *dto.AssetInput) (*model.Asset, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.now()
	a := &model.Asset{BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}}
	fill(a, input)

	if err := uc.repo.Create(ctx, a); err != nil {
		uc.logger.Error("failed to create asset", zap.String("owner_id", input.OwnerID), zap.Error(err))
		return nil, err
	}
	value(a, now)

	uc.invalidate(ctx, input.OwnerID)
	return a, nil
}

func (uc *assetUseCase) GetAsset(ctx context.Context, ownerID, id string) (*model.Asset, error) {
	a, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("asset")
	}
	value(a, uc.now())
	return a, nil
}

func (uc *assetUseCase) ListAssets(ctx context.Context, filters *dto.AssetFilters) ([]model.Asset, int, *dto.AssetSummary, error) {
	now := uc.now()
	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list assets", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	for i := range items {
		value(&items[i], now)
	}

	// The summary covers every matching asset, not just the page.
	all := items
	if filters.PageSize > 0 && count > len(items) {
		unpaged := *filters
		unpaged.Page, unpaged.PageSize = 0, 0
		if all, _, err = uc.repo.FindAll(ctx, &unpaged); err != nil {
			uc.logger.Error("failed to summarize assets", zap.String("owner_id", filters.OwnerID), zap.Error(err))
			return nil, 0, nil, err
		}
	}
	return items, count, summarize(all, now), nil
}

func summarize(assets []model.Asset, asOf time.Time) *dto.AssetSummary {
	var purchase, accumulated, current []float64
	s := &dto.AssetSummary{}
	for i := range assets {
		a := assets[i]
		if a.PurchaseDate.After(asOf) {
			continue
		}
		value(&a, asOf)
		s.Count++
		purchase = append(purchase, a.PurchasePrice)
		accumulated = append(accumulated, a.AccumulatedDepreciation)
		current = append(current, a.CurrentValue)
	}
	s.TotalPurchaseValue = finance.Sum(purchase...)
	s.TotalAccumulated = finance.Sum(accumulated...)
	s.TotalCurrentValue = finance.Sum(current...)
	return s
}

func (uc *assetUseCase) Valuation(ctx context.Context, ownerID string, asOf time.Time) (*dto.AssetSummary, error) {
	all, _, err := uc.repo.FindAll(ctx, &dto.AssetFilters{OwnerID: ownerID})
	if err != nil {
		uc.logger.Error("failed to value assets", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return summarize(all, asOf), nil
}

func (uc *assetUseCase) UpdateAsset(ctx context.Context, id string, input *dto.AssetInput) (*model.Asset, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	a, err := uc.repo.FindByID(ctx, input.OwnerID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("asset")
	}

	fill(a, input)
	a.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, a); err != nil {
		uc.logger.Error("failed to update asset", zap.String("asset_id", id), zap.Error(err))
		return nil, err
	}
	value(a, a.UpdatedAt)

	uc.invalidate(ctx, input.OwnerID)
	return a, nil
}

func (uc *assetUseCase) DeleteAsset(ctx context.Context, ownerID, id string) error {
	a, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if a == nil {
		return apperr.NotFound("asset")
	}
	if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
		uc.logger.Error("failed to delete asset", zap.String("asset_id", id), zap.Error(err))
		return err
	}

	uc.invalidate(ctx, ownerID)
	return nil
}

func (uc *assetUseCase) invalidate(ctx context.Context, ownerID string) {
	if err := uc.cache.DeletePattern(ctx, cache.ReportPattern(ownerID)); err != nil {
		uc.logger.Warn("failed to invalidate report cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}
