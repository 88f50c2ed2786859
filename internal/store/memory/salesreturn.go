package memory

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/salesreturn/dto"
)

type ReturnRepository struct {
	s *Store
}

func NewReturnRepository(s *Store) *ReturnRepository {
	return &ReturnRepository{s: s}
}

func returnOrderTaken(d *dataset, ret *model.SalesReturn) bool {
	for id, other := range d.returns {
		if id != ret.ID && other.OwnerID == ret.OwnerID && other.OrderID == ret.OrderID {
			return true
		}
	}
	return false
}

func (r *ReturnRepository) Create(ctx context.Context, ret *model.SalesReturn) error {
	return r.s.write(ctx, func(d *dataset) error {
		if returnOrderTaken(d, ret) {
			return apperr.Conflict("a return for this order id already exists")
		}
		d.returns[ret.ID] = *ret
		return nil
	})
}

func (r *ReturnRepository) FindByID(ctx context.Context, ownerID, id string) (*model.SalesReturn, error) {
	var found *model.SalesReturn
	r.s.read(func(d *dataset) {
		if ret, ok := d.returns[id]; ok && ret.OwnerID == ownerID {
			found = &ret
		}
	})
	return found, nil
}

func (r *ReturnRepository) FindByOrderID(ctx context.Context, ownerID, orderID, excludeID string) (*model.SalesReturn, error) {
	var found *model.SalesReturn
	r.s.read(func(d *dataset) {
		for id, ret := range d.returns {
			if id != excludeID && ret.OwnerID == ownerID && ret.OrderID == orderID {
				ret := ret
				found = &ret
				return
			}
		}
	})
	return found, nil
}

func (r *ReturnRepository) filter(f *dto.ReturnFilters) []model.SalesReturn {
	var items []model.SalesReturn
	r.s.read(func(d *dataset) {
		for _, ret := range d.returns {
			if ret.OwnerID != f.OwnerID {
				continue
			}
			if f.ClaimStatus != "" && ret.ClaimStatus != f.ClaimStatus {
				continue
			}
			if f.Platform != "" && ret.Platform != f.Platform {
				continue
			}
			if f.SearchQuery != "" && !ilike(ret.OrderID, f.SearchQuery) && !ilike(ret.CustomerName, f.SearchQuery) &&
				!ilike(ret.ProductName, f.SearchQuery) && !ilike(ret.InvoiceNumber, f.SearchQuery) {
				continue
			}
			if !inRange(ret.Date, f.StartDate, f.EndDate) {
				continue
			}
			items = append(items, ret)
		}
	})
	newestFirst(items, func(r model.SalesReturn) time.Time { return r.Date }, func(r model.SalesReturn) time.Time { return r.CreatedAt })
	return items
}

func (r *ReturnRepository) FindAll(ctx context.Context, f *dto.ReturnFilters) ([]model.SalesReturn, int, error) {
	items := r.filter(f)
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *ReturnRepository) Summarize(ctx context.Context, f *dto.ReturnFilters) (*dto.ReturnSummary, error) {
	items := r.filter(f)
	var total, refund, shipping, claims, net []float64
	for _, ret := range items {
		total = append(total, ret.TotalAmount)
		refund = append(refund, ret.RefundAmount)
		shipping = append(shipping, ret.ReturnShippingFee)
		claims = append(claims, ret.ClaimAmount)
		net = append(net, ret.NetLoss)
	}
	return &dto.ReturnSummary{
		Count:             len(items),
		TotalReturnAmount: finance.Sum(total...),
		TotalRefund:       finance.Sum(refund...),
		TotalShippingFees: finance.Sum(shipping...),
		TotalClaims:       finance.Sum(claims...),
		NetResult:         finance.Sum(net...),
	}, nil
}

func (r *ReturnRepository) Update(ctx context.Context, ret *model.SalesReturn) error {
	return r.s.write(ctx, func(d *dataset) error {
		stored, ok := d.returns[ret.ID]
		if !ok || stored.OwnerID != ret.OwnerID {
			return nil
		}
		if returnOrderTaken(d, ret) {
			return apperr.Conflict("a return for this order id already exists")
		}
		d.returns[ret.ID] = *ret
		return nil
	})
}

func (r *ReturnRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		if ret, ok := d.returns[id]; ok && ret.OwnerID == ownerID {
			delete(d.returns, id)
		}
		return nil
	})
}
