package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/inventory"
	invdto "github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/sale"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type saleUseCase struct {
	repo     sale.Repository
	ledger   inventory.UseCase
	calendar finance.FYCalendar
	cache    cache.Store
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewSaleUseCase(repo sale.Repository, ledger inventory.UseCase, calendar finance.FYCalendar, store cache.Store, log logger.ZapLogger) sale.UseCase {
	return &saleUseCase{
		repo:     repo,
		ledger:   ledger,
		calendar: calendar,
		cache:    store,
		logger:   log,
		now:      time.Now,
	}
}

func validate(input *dto.SaleInput) error {
	switch {
	case input.Date.IsZero():
		return apperr.Validation("date is required")
	case strings.TrimSpace(input.ProductName) == "":
		return apperr.Validation("product_name is required")
	case input.Quantity <= 0:
		return apperr.Validation("quantity must be greater than zero")
	case input.UnitPrice < 0:
		return apperr.Validation("unit_price cannot be negative")
	case input.GSTPercentage < 0 || input.GSTPercentage > 100:
		return apperr.Validation("gst_percentage must be between 0 and 100")
	case input.CostPrice < 0 || input.AmountReceived < 0 || input.SellingExpenseAmount < 0:
		return apperr.Validation("amounts cannot be negative")
	}
	return nil
}

func fill(s *model.Sale, input *dto.SaleInput) {
	figures := finance.SaleProfit(finance.SaleInput{
		Quantity:       float64(input.Quantity),
		UnitPrice:      input.UnitPrice,
		GSTPercentage:  input.GSTPercentage,
		GSTInclusive:   input.GSTInclusive,
		CostPrice:      input.CostPrice,
		AmountReceived: input.AmountReceived,
		SellingExpense: input.SellingExpenseAmount,
	}).Rounded()

	s.OwnerID = input.OwnerID
	s.Date = input.Date
	s.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	s.OrderID = nil
	if id := strings.TrimSpace(input.OrderID); id != "" {
		s.OrderID = &id
	}
	s.CustomerName = strings.TrimSpace(input.CustomerName)
	s.Platform = strings.TrimSpace(input.Platform)
	if s.Platform == "" {
		s.Platform = model.DefaultPlatform
	}
	s.ProductName = strings.TrimSpace(input.ProductName)
	s.Quantity = input.Quantity
	s.UnitPrice = input.UnitPrice
	s.GSTPercentage = input.GSTPercentage
	s.GSTInclusive = input.GSTInclusive
	s.Amount = figures.Base
	s.GSTAmount = figures.GST
	s.TotalAmount = figures.Total
	s.CostPrice = input.CostPrice
	s.AmountReceived = figures.AmountReceived
	s.PlatformCommission = figures.PlatformCommission
	s.SellingExpenseAmount = input.SellingExpenseAmount
	s.SellingExpenseCategory = input.SellingExpenseCategory
	s.SellingExpenseNotes = input.SellingExpenseNotes
	s.ProfitAmount = figures.Profit
	s.PaymentMethod = input.PaymentMethod
	s.Notes = input.Notes
}

func (uc *saleUseCase) checkOrderID(ctx context.Context, ownerID string, orderID *string, excludeID string) error {
	if orderID == nil {
		return nil
	}
	existing, err := uc.repo.FindByOrderID(ctx, ownerID, *orderID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check order id: %w", err)
	}
	if existing != nil {
		return apperr.Conflict("a sale with order id %q already exists", *orderID)
	}
	return nil
}

func (uc *saleUseCase) CreateSale(ctx context.Context, input *dto.SaleInput) (*dto.SaleResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.now()
	s := &model.Sale{BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}}
	fill(s, input)

	result := &dto.SaleResult{Sale: s}
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		if err := uc.checkOrderID(ctx, s.OwnerID, s.OrderID, ""); err != nil {
			return err
		}
		if err := uc.repo.Create(ctx, s); err != nil {
			return err
		}
		outcomes, err := uc.ledger.Apply(ctx, s.OwnerID, invdto.StockChange{
			ProductName:   s.ProductName,
			Direction:     model.DirectionOut,
			Quantity:      s.Quantity,
			ReferenceType: model.RefSale,
			ReferenceID:   s.ID,
			Notes:         saleNote(s),
			MovementDate:  s.Date,
		})
		result.Stock = outcomes
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "failed to create sale", zap.String("owner_id", input.OwnerID))
	}

	uc.warnMissing(result)
	uc.invalidate(ctx, s.OwnerID)
	return result, nil
}

func saleNote(s *model.Sale) string {
	if s.OrderID != nil {
		return fmt.Sprintf("Sale on %s, order %s", s.Platform, *s.OrderID)
	}
	return "Sale on " + s.Platform
}

// warnMissing turns products absent from inventory into warnings. The sale
// itself is kept.
func (uc *saleUseCase) warnMissing(result *dto.SaleResult) {
	for _, o := range result.Stock {
		if o.Moved() {
			continue
		}
		msg := fmt.Sprintf("product %q is not in inventory, stock was not updated", o.ProductName)
		result.Warnings = append(result.Warnings, msg)
		uc.logger.Warn("sale recorded without stock movement",
			zap.String("sale_id", result.Sale.ID),
			zap.String("product_name", o.ProductName),
		)
	}
}

func (uc *saleUseCase) GetSale(ctx context.Context, ownerID, id string) (*model.Sale, error) {
	s, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperr.NotFound("sale")
	}
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, *dto.SaleSummary, error) {
	r, err := uc.calendar.Resolve(filters.Period, uc.now())
	if err != nil {
		return nil, 0, nil, err
	}
	filters.StartDate, filters.EndDate = r.From, r.To

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list sales", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	summary, err := uc.repo.Summarize(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to summarize sales", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	return items, count, summary, nil
}

func (uc *saleUseCase) UpdateSale(ctx context.Context, id string, input *dto.SaleInput) (*dto.SaleResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	result := &dto.SaleResult{}
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		s, err := uc.repo.FindByID(ctx, input.OwnerID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return apperr.NotFound("sale")
		}
		oldProduct, oldQty := s.ProductName, s.Quantity

		fill(s, input)
		sameProduct := model.NameKey(oldProduct) == model.NameKey(s.ProductName)
		if s.IsReturned && (!sameProduct || oldQty != s.Quantity) {
			return apperr.Validation("sale has a return recorded; delete the return before changing product or quantity")
		}
		if err := uc.checkOrderID(ctx, s.OwnerID, s.OrderID, s.ID); err != nil {
			return err
		}

		s.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, s); err != nil {
			return err
		}
		result.Sale = s

		notes := "Sale quantity edited"
		if !sameProduct {
			notes = "Sale moved from " + oldProduct + " to " + s.ProductName
		}
		booking, err := uc.ledger.Rebook(ctx, s.OwnerID, invdto.StockChange{
			ProductName:   s.ProductName,
			Direction:     model.DirectionOut,
			Quantity:      s.Quantity,
			ReferenceType: model.RefSaleEdit,
			ReferenceID:   s.ID,
			Notes:         notes,
			MovementDate:  s.Date,
		}, sameProduct)
		result.Stock = booking.Outcomes
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "failed to update sale", zap.String("sale_id", id))
	}

	uc.warnMissing(result)
	uc.invalidate(ctx, input.OwnerID)
	return result, nil
}

// DeleteSale puts back whatever stock the sale still holds unless a return
// already did.
func (uc *saleUseCase) DeleteSale(ctx context.Context, ownerID, id string) error {
	err := uc.ledger.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		s, err := uc.repo.FindByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if s == nil {
			return apperr.NotFound("sale")
		}
		if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
			return err
		}
		if s.IsReturned {
			return nil
		}
		_, err = uc.ledger.Rebook(ctx, ownerID, invdto.StockChange{
			ReferenceType: model.RefSaleDeleted,
			ReferenceID:   s.ID,
			Notes:         "Sale deleted",
			MovementDate:  uc.now(),
		}, false)
		return err
	})
	if err != nil {
		return uc.fail(err, "failed to delete sale", zap.String("sale_id", id))
	}

	uc.invalidate(ctx, ownerID)
	return nil
}

func (uc *saleUseCase) invalidate(ctx context.Context, ownerID string) {
	if err := uc.cache.DeletePattern(ctx, cache.ReportPattern(ownerID)); err != nil {
		uc.logger.Warn("failed to invalidate report cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func (uc *saleUseCase) fail(err error, msg string, fields ...zap.Field) error {
	if !apperr.IsUserFacing(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return err
}
