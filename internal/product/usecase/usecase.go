package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/inventory"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/product"
	"github.com/fekuna/accountbook-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo   product.Repository
	ledger inventory.UseCase
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, ledger inventory.UseCase, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		ledger: ledger,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.OpeningStock < 0 {
		return nil, apperr.Validation("opening stock cannot be negative")
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OwnerID:      input.OwnerID,
		Name:         name,
		NameKey:      model.NameKey(name),
		ProductCode:  input.ProductCode,
		Category:     orDefault(input.Category, model.DefaultProductCategory),
		Unit:         orDefault(input.Unit, model.DefaultProductUnit),
		OpeningStock: input.OpeningStock,
		MinimumStock: model.DefaultMinimumStock,
		Location:     input.Location,
		Notes:        input.Notes,
	}
	if input.MinimumStock != nil {
		p.MinimumStock = *input.MinimumStock
	}
	p.SetLedger(input.OpeningStock)

	// Serialised with the ledger, which may auto-create products by name.
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		unique, err := uc.repo.IsNameUnique(ctx, model.KeyOf(input.OwnerID, name), "")
		if err != nil {
			return fmt.Errorf("failed to check product name: %w", err)
		}
		if !unique {
			return apperr.Validation("product %q already exists", name)
		}
		return uc.repo.Create(ctx, p)
	})
	if err != nil {
		if !apperr.IsUserFacing(err) {
			uc.logger.Error("failed to create product", zap.String("owner_id", input.OwnerID), zap.Error(err))
		}
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, ownerID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product")
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list products", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, err
	}
	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Validation("product name is required")
	}

	var p *model.Product
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		var err error
		p, err = uc.repo.FindByID(ctx, input.OwnerID, input.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound("product")
		}

		if model.NameKey(name) != p.NameKey {
			unique, err := uc.repo.IsNameUnique(ctx, model.KeyOf(input.OwnerID, name), p.ID)
			if err != nil {
				return err
			}
			if !unique {
				return apperr.Validation("product %q already exists", name)
			}
		}

		// Update fields
		p.Name = name
		p.NameKey = model.NameKey(name)
		p.ProductCode = input.ProductCode
		p.Category = orDefault(input.Category, p.Category)
		p.Unit = orDefault(input.Unit, p.Unit)
		if input.MinimumStock != nil {
			p.MinimumStock = *input.MinimumStock
		}
		p.Location = input.Location
		p.Notes = input.Notes
		p.UpdatedAt = time.Now()

		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		if !apperr.IsUserFacing(err) {
			uc.logger.Error("failed to update product", zap.String("product_id", input.ID), zap.Error(err))
		}
		return nil, err
	}
	return p, nil
}

// DeleteProduct removes a product that never moved. Products with history
// stay, since the movement log is append-only.
func (uc *productUseCase) DeleteProduct(ctx context.Context, ownerID, id string) error {
	err := uc.ledger.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound("product")
		}

		moves, err := uc.repo.CountMovements(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if moves > 0 {
			return apperr.Conflict("product %q has %d stock movements and cannot be deleted", p.Name, moves)
		}
		return uc.repo.Delete(ctx, ownerID, id)
	})
	if err != nil && !apperr.IsUserFacing(err) {
		uc.logger.Error("failed to delete product", zap.String("product_id", id), zap.Error(err))
	}
	return err
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
