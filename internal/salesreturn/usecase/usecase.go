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
	"github.com/fekuna/accountbook-service/internal/salesreturn"
	"github.com/fekuna/accountbook-service/internal/salesreturn/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type returnUseCase struct {
	repo     salesreturn.Repository
	sales    sale.Repository
	ledger   inventory.UseCase
	calendar finance.FYCalendar
	cache    cache.Store
	logger   logger.ZapLogger
	now      func() time.Time
}

func NewReturnUseCase(repo salesreturn.Repository, sales sale.Repository, ledger inventory.UseCase, calendar finance.FYCalendar, store cache.Store, log logger.ZapLogger) salesreturn.UseCase {
	return &returnUseCase{
		repo:     repo,
		sales:    sales,
		ledger:   ledger,
		calendar: calendar,
		cache:    store,
		logger:   log,
		now:      time.Now,
	}
}

func validate(input *dto.ReturnInput) error {
	switch {
	case input.Date.IsZero():
		return apperr.Validation("date is required")
	case strings.TrimSpace(input.OrderID) == "":
		return apperr.Validation("order_id is required")
	case input.ClaimStatus != "" && !model.ValidClaimStatus(input.ClaimStatus):
		return apperr.Validation("invalid claim_status %q", input.ClaimStatus)
	case input.ReturnShippingFee < 0 || input.ClaimAmount < 0 || input.UnitPrice < 0 || input.Quantity < 0:
		return apperr.Validation("amounts cannot be negative")
	case input.GSTPercentage != nil && (*input.GSTPercentage < 0 || *input.GSTPercentage > 100):
		return apperr.Validation("gst_percentage must be between 0 and 100")
	}
	return nil
}

// fill copies input onto r, borrowing blank product details from the linked sale.
func fill(r *model.SalesReturn, input *dto.ReturnInput, linked *model.Sale) error {
	r.OwnerID = input.OwnerID
	r.Date = input.Date
	r.OrderID = strings.TrimSpace(input.OrderID)
	r.InvoiceNumber = strings.TrimSpace(input.InvoiceNumber)
	r.CustomerName = strings.TrimSpace(input.CustomerName)
	r.Platform = strings.TrimSpace(input.Platform)
	r.ProductName = strings.TrimSpace(input.ProductName)
	r.Quantity = input.Quantity
	r.UnitPrice = input.UnitPrice
	r.GSTPercentage = 0
	if input.GSTPercentage != nil {
		r.GSTPercentage = *input.GSTPercentage
	}
	r.SaleID = nil

	if linked != nil {
		id := linked.ID
		r.SaleID = &id
		r.InvoiceNumber = firstNonBlank(r.InvoiceNumber, linked.InvoiceNumber)
		r.CustomerName = firstNonBlank(r.CustomerName, linked.CustomerName)
		r.Platform = firstNonBlank(r.Platform, linked.Platform)
		r.ProductName = firstNonBlank(r.ProductName, linked.ProductName)
		if r.Quantity == 0 {
			r.Quantity = linked.Quantity
		}
		if r.UnitPrice == 0 && linked.Quantity > 0 {
			r.UnitPrice = finance.Round2(linked.Amount / float64(linked.Quantity))
		}
		if input.GSTPercentage == nil {
			r.GSTPercentage = linked.GSTPercentage
		}
	}
	if r.Platform == "" {
		r.Platform = model.DefaultPlatform
	}
	if r.ProductName == "" {
		return apperr.Validation("product_name is required when no sale matches order %q", r.OrderID)
	}
	if r.Quantity <= 0 {
		return apperr.Validation("quantity must be greater than zero")
	}

	r.ClaimStatus = input.ClaimStatus
	if r.ClaimStatus == "" {
		r.ClaimStatus = model.ClaimNone
	}
	r.ReturnShippingFee = input.ReturnShippingFee
	r.ClaimAmount = input.ClaimAmount
	r.Reason = input.Reason
	r.Notes = input.Notes

	figures := finance.ReturnResult(float64(r.Quantity), r.UnitPrice, r.GSTPercentage, r.ReturnShippingFee, r.ClaimAmount).Rounded()
	r.Amount = figures.Base
	r.GSTAmount = figures.GST
	r.TotalAmount = figures.Total
	r.RefundAmount = figures.NetRefund
	r.NetLoss = figures.NetResult
	return nil
}

func firstNonBlank(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// wantsRestock reports whether the goods come back to stock. Only unclaimed
// returns are restocked.
func wantsRestock(r *model.SalesReturn) bool {
	return r.ClaimStatus == model.ClaimNone
}

func (uc *returnUseCase) checkOrderID(ctx context.Context, ownerID, orderID, excludeID string) error {
	dup, err := uc.repo.FindByOrderID(ctx, ownerID, orderID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check order id: %w", err)
	}
	if dup != nil {
		return apperr.Conflict("a return for order %q already exists", orderID)
	}
	return nil
}

func (uc *returnUseCase) CreateReturn(ctx context.Context, input *dto.ReturnInput) (*dto.ReturnResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := uc.now()
	r := &model.SalesReturn{BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}}
	result := &dto.ReturnResult{Return: r}

	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		orderID := strings.TrimSpace(input.OrderID)
		if err := uc.checkOrderID(ctx, input.OwnerID, orderID, ""); err != nil {
			return err
		}
		linked, err := uc.sales.FindByOrderID(ctx, input.OwnerID, orderID, "")
		if err != nil {
			return fmt.Errorf("failed to find sale: %w", err)
		}
		if err := fill(r, input, linked); err != nil {
			return err
		}

		if wantsRestock(r) {
			if err := uc.restock(ctx, r, result); err != nil {
				return err
			}
		}
		if err := uc.repo.Create(ctx, r); err != nil {
			return err
		}
		if linked != nil {
			return uc.sales.SetReturn(ctx, r.OwnerID, linked.ID, &r.ID)
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(err, "failed to create sales return", zap.String("owner_id", input.OwnerID))
	}

	uc.invalidate(ctx, input.OwnerID)
	return result, nil
}

// restock moves the returned quantity back in and records whether it landed.
func (uc *returnUseCase) restock(ctx context.Context, r *model.SalesReturn, result *dto.ReturnResult) error {
	outcomes, err := uc.ledger.Apply(ctx, r.OwnerID, invdto.StockChange{
		ProductName:   r.ProductName,
		Direction:     model.DirectionIn,
		Quantity:      r.Quantity,
		ReferenceType: model.RefSaleReturn,
		ReferenceID:   r.ID,
		Notes:         "Return for order " + r.OrderID,
		MovementDate:  r.Date,
	})
	if err != nil {
		return err
	}
	result.Stock = append(result.Stock, outcomes...)
	r.Restocked = outcomes[0].Moved()
	if !r.Restocked {
		result.Warnings = append(result.Warnings, fmt.Sprintf("product %q is not in inventory, stock was not updated", r.ProductName))
	}
	return nil
}

func (uc *returnUseCase) GetReturn(ctx context.Context, ownerID, id string) (*model.SalesReturn, error) {
	r, err := uc.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("sales return")
	}
	return r, nil
}

func (uc *returnUseCase) ListReturns(ctx context.Context, filters *dto.ReturnFilters) ([]model.SalesReturn, int, *dto.ReturnSummary, error) {
	rng, err := uc.calendar.Resolve(filters.Period, uc.now())
	if err != nil {
		return nil, 0, nil, err
	}
	filters.StartDate, filters.EndDate = rng.From, rng.To

	items, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list sales returns", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	summary, err := uc.repo.Summarize(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to summarize sales returns", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, nil, err
	}
	return items, count, summary, nil
}

// UpdateReturn undoes the stock effect of the stored return and applies the
// edited one. When both restock the same product only the difference moves.
func (uc *returnUseCase) UpdateReturn(ctx context.Context, id string, input *dto.ReturnInput) (*dto.ReturnResult, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	result := &dto.ReturnResult{}
	err := uc.ledger.WithLedger(ctx, input.OwnerID, func(ctx context.Context) error {
		r, err := uc.repo.FindByID(ctx, input.OwnerID, id)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFound("sales return")
		}
		old := *r
		result.Return = r

		orderID := strings.TrimSpace(input.OrderID)
		if orderID != old.OrderID {
			if err := uc.checkOrderID(ctx, input.OwnerID, orderID, id); err != nil {
				return err
			}
		}
		linked, err := uc.sales.FindByOrderID(ctx, input.OwnerID, orderID, "")
		if err != nil {
			return fmt.Errorf("failed to find sale: %w", err)
		}
		if err := fill(r, input, linked); err != nil {
			return err
		}

		if err := uc.reconcile(ctx, &old, r, result); err != nil {
			return err
		}

		r.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, r); err != nil {
			return err
		}
		return uc.relink(ctx, &old, r)
	})
	if err != nil {
		return nil, uc.fail(err, "failed to update sales return", zap.String("return_id", id))
	}

	uc.invalidate(ctx, input.OwnerID)
	return result, nil
}

// reconcile settles the return's stock after an edit. A restocked return of
// the same product keeps its product, even if it was renamed since.
func (uc *returnUseCase) reconcile(ctx context.Context, old, r *model.SalesReturn, result *dto.ReturnResult) error {
	change := invdto.StockChange{
		ReferenceType: model.RefSaleReturnEdit,
		ReferenceID:   r.ID,
		Notes:         "Return edit reversed restock",
		MovementDate:  r.Date,
	}
	keep := false
	if wantsRestock(r) {
		keep = old.Restocked && model.NameKey(old.ProductName) == model.NameKey(r.ProductName)
		change.ProductName = r.ProductName
		change.Direction = model.DirectionIn
		change.Quantity = r.Quantity
		change.Notes = "Return for order " + r.OrderID
		if keep {
			change.Notes = "Return quantity edited"
		}
	}

	booking, err := uc.ledger.Rebook(ctx, r.OwnerID, change, keep)
	if err != nil {
		return err
	}
	result.Stock = append(result.Stock, booking.Outcomes...)
	r.Restocked = booking.Held
	if wantsRestock(r) && !r.Restocked {
		result.Warnings = append(result.Warnings, fmt.Sprintf("product %q is not in inventory, stock was not updated", r.ProductName))
	}
	return nil
}

// relink moves the sale's return marker when the order id changed.
func (uc *returnUseCase) relink(ctx context.Context, old, r *model.SalesReturn) error {
	oldSale, newSale := deref(old.SaleID), deref(r.SaleID)
	if oldSale == newSale {
		return nil
	}
	if oldSale != "" {
		if err := uc.sales.SetReturn(ctx, r.OwnerID, oldSale, nil); err != nil {
			return err
		}
	}
	if newSale != "" {
		return uc.sales.SetReturn(ctx, r.OwnerID, newSale, &r.ID)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (uc *returnUseCase) DeleteReturn(ctx context.Context, ownerID, id string) error {
	err := uc.ledger.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		r, err := uc.repo.FindByID(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFound("sales return")
		}
		if err := uc.repo.Delete(ctx, ownerID, id); err != nil {
			return err
		}
		_, err = uc.ledger.Rebook(ctx, ownerID, invdto.StockChange{
			ReferenceType: model.RefSaleReturnDeleted,
			ReferenceID:   r.ID,
			Notes:         "Return deleted",
			MovementDate:  uc.now(),
		}, false)
		if err != nil {
			return err
		}
		if r.SaleID != nil {
			return uc.sales.SetReturn(ctx, ownerID, *r.SaleID, nil)
		}
		return nil
	})
	if err != nil {
		return uc.fail(err, "failed to delete sales return", zap.String("return_id", id))
	}

	uc.invalidate(ctx, ownerID)
	return nil
}

func (uc *returnUseCase) invalidate(ctx context.Context, ownerID string) {
	if err := uc.cache.DeletePattern(ctx, cache.ReportPattern(ownerID)); err != nil {
		uc.logger.Warn("failed to invalidate report cache", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func (uc *returnUseCase) fail(err error, msg string, fields ...zap.Field) error {
	if !apperr.IsUserFacing(err) {
		uc.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return err
}
