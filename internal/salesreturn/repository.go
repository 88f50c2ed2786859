package salesreturn

import (
	"context"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/salesreturn/dto"
)

type Repository interface {
	Create(ctx context.Context, r *model.SalesReturn) error
	FindByID(ctx context.Context, ownerID, id string) (*model.SalesReturn, error)
	FindByOrderID(ctx context.Context, ownerID, orderID, excludeID string) (*model.SalesReturn, error)
	FindAll(ctx context.Context, filters *dto.ReturnFilters) ([]model.SalesReturn, int, error)
	Summarize(ctx context.Context, filters *dto.ReturnFilters) (*dto.ReturnSummary, error)
	Update(ctx context.Context, r *model.SalesReturn) error
	Delete(ctx context.Context, ownerID, id string) error
}
