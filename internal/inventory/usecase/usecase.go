package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/internal/inventory"
	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/txn"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ledgerLockTTL = 10 * time.Second

type ledgerKey struct{}

// ledgerScope collects outcomes of one unit of work so low-stock notices can be
// sent once it has committed.
type ledgerScope struct {
	ownerID  string
	outcomes []dto.StockOutcome
}

type inventoryUseCase struct {
	repo      inventory.Repository
	tx        txn.Transactor
	locker    cache.Locker
	publisher broker.Publisher
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewInventoryUseCase(repo inventory.Repository, tx txn.Transactor, locker cache.Locker, publisher broker.Publisher, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:      repo,
		tx:        tx,
		locker:    locker,
		publisher: publisher,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *inventoryUseCase) WithLedger(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error {
	if scope, ok := ctx.Value(ledgerKey{}).(*ledgerScope); ok {
		if scope.ownerID != ownerID {
			return fmt.Errorf("ledger scope for %s reused for %s", scope.ownerID, ownerID)
		}
		return fn(ctx)
	}

	// 0. Acquire owner lock
	unlock, err := uc.locker.Lock(ctx, "lock:ledger:"+ownerID, ledgerLockTTL)
	if err != nil {
		uc.logger.Warn("failed to acquire ledger lock", zap.String("owner_id", ownerID), zap.Error(err))
		return err
	}
	defer unlock()

	// 1. Run the unit of work
	scope := &ledgerScope{ownerID: ownerID}
	err = uc.tx.WithinTx(context.WithValue(ctx, ledgerKey{}, scope), fn)
	if err != nil {
		return err
	}

	// 2. Notify after commit
	uc.publishLowStock(ctx, ownerID, scope.outcomes)
	return nil
}

func (uc *inventoryUseCase) Apply(ctx context.Context, ownerID string, changes ...dto.StockChange) ([]dto.StockOutcome, error) {
	var outcomes []dto.StockOutcome
	err := uc.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		scope := ctx.Value(ledgerKey{}).(*ledgerScope)
		for _, change := range changes {
			outcome, err := uc.applyOne(ctx, ownerID, change)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, outcome)
		}
		scope.outcomes = append(scope.outcomes, outcomes...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (uc *inventoryUseCase) Rebook(ctx context.Context, ownerID string, change dto.StockChange, keep bool) (dto.Rebooking, error) {
	var result dto.Rebooking
	err := uc.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		holdings, err := uc.repo.Holdings(ctx, ownerID, change.ReferenceID)
		if err != nil {
			return err
		}
		if keep && change.ProductID == "" && len(holdings) > 0 {
			change.ProductID = holdings[len(holdings)-1].ProductID
		}

		// 1. Move stock back off every other product
		var changes []dto.StockChange
		held := 0
		for _, h := range holdings {
			if h.ProductID == change.ProductID {
				held = h.Quantity
				continue
			}
			back := change
			back.ProductID = h.ProductID
			back.ProductName = h.ProductName
			back.CreateIfMissing = false
			back.Direction, back.Quantity = directionOf(-h.Quantity)
			changes = append(changes, back)
		}

		// 2. Bring the target to the wanted quantity
		want := change.Quantity
		if change.Direction == model.DirectionOut {
			want = -want
		}
		released := len(changes)
		delta := want - held
		if change.Quantity > 0 && delta != 0 {
			c := change
			c.Direction, c.Quantity = directionOf(delta)
			changes = append(changes, c)
		}
		result.Held = change.Quantity > 0 && delta == 0
		if len(changes) == 0 {
			return nil
		}

		outcomes, err := uc.Apply(ctx, ownerID, changes...)
		if err != nil {
			return err
		}
		for _, o := range outcomes[:released] {
			if !o.Moved() {
				return fmt.Errorf("product %q holding stock for %s no longer exists", o.ProductName, change.ReferenceID)
			}
		}
		if len(outcomes) > released {
			result.Held = outcomes[released].Moved()
		}
		result.Outcomes = outcomes
		return nil
	})
	return result, err
}

func directionOf(signed int) (string, int) {
	if signed < 0 {
		return model.DirectionOut, -signed
	}
	return model.DirectionIn, signed
}

func (uc *inventoryUseCase) applyOne(ctx context.Context, ownerID string, change dto.StockChange) (dto.StockOutcome, error) {
	if change.Quantity <= 0 {
		return dto.StockOutcome{}, apperr.Validation("stock movement quantity must be positive")
	}
	if change.Direction != model.DirectionIn && change.Direction != model.DirectionOut {
		return dto.StockOutcome{}, apperr.Validation("invalid movement direction %q", change.Direction)
	}

	// 1. Resolve product
	var p *model.Product
	var err error
	if change.ProductID != "" {
		p, err = uc.repo.FindProductByID(ctx, ownerID, change.ProductID)
	} else {
		p, err = uc.repo.FindProductByKey(ctx, model.KeyOf(ownerID, change.ProductName))
	}
	if err != nil {
		uc.logger.Error("failed to load product for stock change",
			zap.String("owner_id", ownerID),
			zap.String("product", change.ProductName),
			zap.Error(err),
		)
		return dto.StockOutcome{}, fmt.Errorf("failed to load product: %w", err)
	}

	now := uc.now()
	status := dto.StatusApplied

	if p == nil {
		if !change.CreateIfMissing || strings.TrimSpace(change.ProductName) == "" {
			return dto.StockOutcome{Status: dto.StatusProductNotFound, ProductName: change.ProductName}, nil
		}
		p = newProduct(ownerID, change, now)
		if err := uc.repo.CreateProduct(ctx, p); err != nil {
			return dto.StockOutcome{}, fmt.Errorf("failed to create product: %w", err)
		}
		status = dto.StatusProductCreated
	}

	// 2. Move the ledger
	stockBefore := p.CurrentStock
	movement := &model.StockMovement{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		ProductID:     p.ID,
		ProductName:   p.Name,
		Direction:     change.Direction,
		Quantity:      change.Quantity,
		ReferenceType: change.ReferenceType,
		ReferenceID:   change.ReferenceID,
		Notes:         change.Notes,
		MovementDate:  change.MovementDate,
		CreatedAt:     now,
	}
	if movement.MovementDate.IsZero() {
		movement.MovementDate = now
	}

	p.SetLedger(p.LedgerBalance + movement.Signed())
	p.UpdatedAt = now
	movement.StockBefore = stockBefore
	movement.StockAfter = p.CurrentStock

	if err := uc.repo.UpdateStock(ctx, p); err != nil {
		return dto.StockOutcome{}, err
	}
	if err := uc.repo.LogMovement(ctx, movement); err != nil {
		return dto.StockOutcome{}, err
	}

	return dto.StockOutcome{
		Status:       status,
		ProductID:    p.ID,
		ProductName:  p.Name,
		StockBefore:  stockBefore,
		StockAfter:   p.CurrentStock,
		MinimumStock: p.MinimumStock,
		MovementID:   movement.ID,
	}, nil
}

func newProduct(ownerID string, change dto.StockChange, now time.Time) *model.Product {
	category := change.Seed.Category
	if category == "" {
		category = model.DefaultProductCategory
	}
	unit := change.Seed.Unit
	if unit == "" {
		unit = model.DefaultProductUnit
	}
	name := strings.TrimSpace(change.ProductName)

	return &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		OwnerID:      ownerID,
		Name:         name,
		NameKey:      model.NameKey(name),
		Category:     category,
		Unit:         unit,
		MinimumStock: model.DefaultMinimumStock,
	}
}

func (uc *inventoryUseCase) publishLowStock(ctx context.Context, ownerID string, outcomes []dto.StockOutcome) {
	seen := map[string]bool{}
	// The last outcome per product reflects its committed stock.
	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		if !o.Moved() || seen[o.ProductID] {
			continue
		}
		seen[o.ProductID] = true
		if !o.LowStock() {
			continue
		}

		event := dto.LowStockEvent{
			EventType:    "stock.low",
			OwnerID:      ownerID,
			ProductID:    o.ProductID,
			ProductName:  o.ProductName,
			CurrentStock: o.StockAfter,
			MinimumStock: o.MinimumStock,
			OccurredAt:   uc.now(),
		}
		if err := uc.publisher.Publish(ctx, o.ProductID, event); err != nil {
			uc.logger.Warn("failed to publish low stock event",
				zap.String("owner_id", ownerID),
				zap.String("product_id", o.ProductID),
				zap.Error(err),
			)
		}
	}
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*dto.StockOutcome, error) {
	if input.ProductID == "" {
		return nil, apperr.Validation("product_id is required")
	}
	quantity := input.Quantity
	if quantity < 0 {
		quantity = -quantity
	}
	if quantity == 0 {
		return nil, apperr.Validation("quantity must be greater than zero")
	}
	direction := strings.ToUpper(input.Direction)

	outcomes, err := uc.Apply(ctx, input.OwnerID, dto.StockChange{
		ProductID:     input.ProductID,
		Direction:     direction,
		Quantity:      quantity,
		ReferenceType: model.RefAdjustment,
		Notes:         input.Notes,
		MovementDate:  input.MovementDate,
	})
	if err != nil {
		return nil, err
	}
	if !outcomes[0].Moved() {
		return nil, apperr.NotFound("product")
	}
	return &outcomes[0], nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	items, count, err := uc.repo.ListMovements(ctx, filters)
	if err != nil {
		uc.logger.Error("failed to list movements", zap.String("owner_id", filters.OwnerID), zap.Error(err))
		return nil, 0, err
	}
	return items, count, nil
}

func (uc *inventoryUseCase) GetProductStock(ctx context.Context, ownerID, productID string) (*dto.ProductStock, error) {
	p, err := uc.repo.FindProductByID(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product")
	}
	return &dto.ProductStock{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Unit:         p.Unit,
		OpeningStock: p.OpeningStock,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		LowStock:     p.IsLowStock(),
	}, nil
}

func (uc *inventoryUseCase) AuditStock(ctx context.Context, ownerID, productID string) (*dto.StockAudit, error) {
	p, err := uc.repo.FindProductByID(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("product")
	}
	audit, err := uc.audit(ctx, p)
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

func (uc *inventoryUseCase) audit(ctx context.Context, p *model.Product) (dto.StockAudit, error) {
	in, out, err := uc.repo.SumMovements(ctx, p.OwnerID, p.ID)
	if err != nil {
		return dto.StockAudit{}, fmt.Errorf("failed to sum movements: %w", err)
	}
	balance := p.OpeningStock + in - out
	expected := max(0, balance)
	return dto.StockAudit{
		ProductID:       p.ID,
		ProductName:     p.Name,
		OpeningStock:    p.OpeningStock,
		TotalIn:         in,
		TotalOut:        out,
		ExpectedBalance: balance,
		ExpectedStock:   expected,
		RecordedBalance: p.LedgerBalance,
		RecordedStock:   p.CurrentStock,
		Drift:           p.CurrentStock - expected,
	}, nil
}

// RebuildStock rewrites stored stock from opening stock and the movement log
// and returns the products that had drifted.
func (uc *inventoryUseCase) RebuildStock(ctx context.Context, ownerID string) ([]dto.StockAudit, error) {
	var fixed []dto.StockAudit
	err := uc.WithLedger(ctx, ownerID, func(ctx context.Context) error {
		products, err := uc.repo.ListProducts(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		for i := range products {
			p := &products[i]
			audit, err := uc.audit(ctx, p)
			if err != nil {
				return err
			}
			if audit.Consistent() {
				continue
			}
			p.SetLedger(audit.ExpectedBalance)
			p.UpdatedAt = uc.now()
			if err := uc.repo.UpdateStock(ctx, p); err != nil {
				return err
			}
			uc.logger.Info("stock rebuilt from movement log",
				zap.String("owner_id", ownerID),
				zap.String("product_id", p.ID),
				zap.Int("recorded", audit.RecordedStock),
				zap.Int("expected", audit.ExpectedStock),
			)
			fixed = append(fixed, audit)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fixed, nil
}
