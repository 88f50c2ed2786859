package report

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/report/dto"
)

// Repository aggregates the books in the store instead of loading every row.
type Repository interface {
	Totals(ctx context.Context, scope dto.Scope) (*dto.Totals, error)
	PlatformSales(ctx context.Context, scope dto.Scope) ([]dto.PlatformTotal, error)
	MonthlySales(ctx context.Context, scope dto.Scope) ([]dto.MonthlyAmount, error)
	MonthlyPurchases(ctx context.Context, scope dto.Scope) ([]dto.MonthlyAmount, error)
}
