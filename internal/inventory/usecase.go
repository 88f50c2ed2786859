package inventory

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type UseCase interface {
	// WithLedger runs fn as one unit of work under the owner's ledger lock.
	// Apply calls made inside fn commit together with fn's own writes.
	WithLedger(ctx context.Context, ownerID string, fn func(ctx context.Context) error) error
	Apply(ctx context.Context, ownerID string, changes ...dto.StockChange) ([]dto.StockOutcome, error)
	// Rebook settles the stock held for change.ReferenceID so the record ends
	// holding change.Quantity in change.Direction on one product. With keep set
	// the product already holding it stays the target even after a rename.
	// A zero quantity releases everything the record holds.
	Rebook(ctx context.Context, ownerID string, change dto.StockChange, keep bool) (dto.Rebooking, error)

	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*dto.StockOutcome, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
	GetProductStock(ctx context.Context, ownerID, productID string) (*dto.ProductStock, error)
	AuditStock(ctx context.Context, ownerID, productID string) (*dto.StockAudit, error)
	RebuildStock(ctx context.Context, ownerID string) ([]dto.StockAudit, error)
}
