package report

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/report/dto"
)

type UseCase interface {
	// Dashboard accepts a financial-year label or "all".
	Dashboard(ctx context.Context, ownerID, fy string) (*dto.Dashboard, error)
	ProfitAndLoss(ctx context.Context, ownerID, fy string) (*dto.ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, ownerID, fy string) (*dto.BalanceSheet, error)
	// ExportProfitAndLoss renders the P&L and balance sheet as an xlsx workbook.
	ExportProfitAndLoss(ctx context.Context, ownerID, fy string) ([]byte, string, error)
}
