package salesreturn

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/salesreturn/dto"
)

type UseCase interface {
	CreateReturn(ctx context.Context, input *dto.ReturnInput) (*dto.ReturnResult, error)
	GetReturn(ctx context.Context, ownerID, id string) (*model.SalesReturn, error)
	ListReturns(ctx context.Context, filters *dto.ReturnFilters) ([]model.SalesReturn, int, *dto.ReturnSummary, error)
	UpdateReturn(ctx context.Context, id string, input *dto.ReturnInput) (*dto.ReturnResult, error)
	DeleteReturn(ctx context.Context, ownerID, id string) error
}
