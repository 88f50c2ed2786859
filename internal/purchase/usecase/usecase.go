package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/inventory"
	invdto "github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/purchase"
	"github.com/fekuna/accountbook-service/internal/purchase/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type purchaseUseCase struct {
	repo     purchase.Repository
	ledger   inventory.UseCase
	calendar finance.FYCalendar
	cache    cache.Store
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewPurchaseUseCase(repo purchase.Repository, ledger inventory.UseCase, calendar finance.FYCalendar, store cache.Store, log logger.ZapLogger) purchase.UseCase {
	return &purchaseUseCase{
		repo:     repo,
		ledger:   ledger,
		calendar: calendar,
		cache:    store,
		logger:   log,
		now:      time.Now,
	}
}

func validate(input *dto.PurchaseInput) error {
	switch {
	case input.Date.IsZero():
		return apperr.Validation("date is required")
	case strings.TrimSpace(input.SupplierName) == "":
		return apperr.Validation("supplier_name is required")
	case strings.TrimSpace(input.ItemName) == "":
		return apperr.Validation("item_name is required")
	case input.Quantity <= 0:
		return apperr.Validation("quantity must be greater than zero")
	case input.UnitPrice < 0:
		return apperr.Validation("unit_price cannot be negative")
	case input.GSTPercentage < 0 || input.GSTPercentage > 100:
		return apperr.Validation("gst_percentage must be between 0 and 100")
	}
	return nil
}

// fill copies the input and derived amounts onto p.
func fill(p *model.Purchase, input *dto.PurchaseInput) {
	split := finance.SplitGST(float64(input.Quantity), input.UnitPrice, input.GSTPercentage, false).Rounded()

	p.OwnerID = input.OwnerID
	p.Date = input.Date
	p.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	p.SupplierName = strings.TrimSpace(input.SupplierName)
	p.Category = strings.TrimSpace(input.Category)
	p.ItemName = strings.TrimSpace(input.ItemName)
	p.Quantity = input.Quantity
	p.UnitPrice = input.UnitPrice
	p.GSTPercentage = input.GSTPercentage
	p.Amount = split.Base
	p.GSTAmount = split.GST
	p.TotalAmount = split.Total
	p.PaymentMethod = input.PaymentMethod
	p.Notes = input.Notes
}

func (uc *purchaseUseCase) CreatePurchase(ctx context.Context, input *dto.PurchaseInput) (*dto.PurchaseResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.now()
	p := &model.Purchase{BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}}
	fill(p, input)

	result := &dto.PurchaseResult{Purchase: p}
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		outcomes, err := uc.ledger.Apply(ctx, p.OwnerID, invdto.StockChange{
			ProductName:     p.ItemName,
			Direction:       model.DirectionIn,
			Quantity:        p.Quantity,
			ReferenceType:   model.RefPurchase,
			ReferenceID:     p.ID,
			Notes:           "Purchase from " + p.SupplierName,
			MovementDate:    p.Date,
			CreateIfMissing: true,
			Seed:            invdto.ProductSeed{Category: p.Category},
		})
		result.Stock = outcomes
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "failed to create purchase", zap.String("owner_id", input.OwnerID))
	}

	uc.invalidate(ctx, p.OwnerID)
	return result, nil
}

func (uc *purchaseUseCase) GetPurchase(ctx context.Context, ownerID, id string) (*model.Purchase, error) {
	p, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("purchase")
	}
	return p, nil
}

func (uc *purchaseUseCase) ListPurchases(ctx context.Context, filters *dto.PurchaseFilters) ([]model.Purchase, int, *dto.PurchaseSummary, error) {
	r, err := uc.calendar.Resolve(filters.Period, uc.now())
	if err != nil {
		return nil, 0, nil, err
	}
	filters.StartDate, filters.EndDate = r.From, r.To

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list purchases", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	summary, err := uc.repo.Summarize(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to summarize purchases", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	return items, count, summary, nil
}

// UpdatePurchase reconciles stock with the edit. The same item moves by the
// quantity difference on the product that received the purchase, even if that
// product was renamed since. A changed item moves the stock out of the old
// product and into the new one.
func (uc *purchaseUseCase) UpdatePurchase(ctx context.Context, id string, input *dto.PurchaseInput) (*dto.PurchaseResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	result := &dto.PurchaseResult{}
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, input.OwnerID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound("purchase")
		}
		oldItem := p.ItemName

		fill(p, input)
		p.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, p); err != nil {
			return err
		}
		result.Purchase = p

		sameItem := model.NameKey(oldItem) == model.NameKey(p.ItemName)
		notes := "Purchase quantity edited"
		if !sameItem {
			notes = "Purchase moved from " + oldItem + " to " + p.ItemName
		}
		booking, err := uc.ledger.Rebook(ctx, p.OwnerID, invdto.StockChange{
			ProductName:     p.ItemName,
			Direction:       model.DirectionIn,
			Quantity:        p.Quantity,
			ReferenceType:   model.RefPurchaseEdit,
			ReferenceID:     p.ID,
			Notes:           notes,
			MovementDate:    p.Date,
			CreateIfMissing: true,
			Seed:            invdto.ProductSeed{Category: p.Category},
		}, sameItem)
		result.Stock = booking.Outcomes
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "failed to update purchase", zap.String("purchase_id", id))
	}

	uc.invalidate(ctx, input.OwnerID)
	return result, nil
}

// DeletePurchase takes back out whatever stock the purchase still holds.
func (uc *purchaseUseCase) DeletePurchase(ctx context.Context, ownerID, id string) error {
	err := uc.ledger.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFound("purchase")
		}
		if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
			return err
		}
		_, err = uc.ledger.Rebook(ctx, ownerID, invdto.StockChange{
			ReferenceType: model.RefPurchaseDeleted,
			ReferenceID:   p.ID,
			Notes:         "Purchase deleted",
			MovementDate:  uc.now(),
		}, false)
		return err
	})
	if err != nil {
		return uc.fail(err, "failed to delete purchase", zap.String("purchase_id", id))
	}

	uc.invalidate(ctx, ownerID)
	return nil
}

// DuplicatePurchase re-enters a purchase dated today with no invoice number.
func (uc *purchaseUseCase) DuplicatePurchase(ctx context.Context, ownerID, id string) (*dto.PurchaseResult, error) {
	src, err := uc.GetPurchase(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	y, m, d := uc.now().Date()
	return uc.CreatePurchase(ctx, &dto.PurchaseInput{
		OwnerID:       ownerID,
		Date:          time.Date(y, m, d, 0, 0, 0, 0, src.Date.Location()),
		SupplierName:  src.SupplierName,
		Category:      src.Category,
		ItemName:      src.ItemName,
		Quantity:      src.Quantity,
		UnitPrice:     src.UnitPrice,
		GSTPercentage: src.GSTPercentage,
		PaymentMethod: src.PaymentMethod,
		Notes:         src.Notes,
	})
}

func (uc *purchaseUseCase) invalidate(ctx context.Context, ownerID string) {
	if err := uc.cache.DeletePattern(ctx, cache.ReportPattern(ownerID)); err != nil {
		uc.logger.Warn("failed to invalidate report cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

// fail logs store failures; user-facing errors pass through quietly.
func (uc *purchaseUseCase) fail(err error, msg string, fields ...zap.Field) error {
	if !apperr.IsUserFacing(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return err
}
