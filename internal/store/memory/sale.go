package memory

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
)

type SaleRepository struct {
	s *Store
}

func NewSaleRepository(s *Store) *SaleRepository {
	return &SaleRepository{s: s}
}

// orderTaken mirrors the partial unique index on (owner_id, order_id).
func orderTaken(d *dataset, s *model.Sale) bool {
	if s.OrderID == nil {
		return false
	}
	for id, other := range d.sales {
		if id != s.ID && other.OwnerID == s.OwnerID && other.OrderID != nil && *other.OrderID == *s.OrderID {
			return true
		}
	}
	return false
}

func (r *SaleRepository) Create(ctx context.Context, s *model.Sale) error {
	return r.s.write(ctx, func(d *dataset) error {
		if orderTaken(d, s) {
			return apperr.Conflict("a sale with this order id already exists")
		}
		d.sales[s.ID] = *s
		return nil
	})
}

func (r *SaleRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Sale, error) {
	var found *model.Sale
	r.s.read(func(d *dataset) {
		if s, ok := d.sales[id]; ok && s.OwnerID == ownerID {
			found = &s
		}
	})
	return found, nil
}

func (r *SaleRepository) FindByOrderID(ctx context.Context, ownerID, orderID, excludeID string) (*model.Sale, error) {
	var found *model.Sale
	r.s.read(func(d *dataset) {
		for id, s := range d.sales {
			if id == excludeID || s.OwnerID != ownerID || s.OrderID == nil || *s.OrderID != orderID {
				continue
			}
			if found == nil || s.CreatedAt.Before(found.CreatedAt) {
				s := s
				found = &s
			}
		}
	})
	return found, nil
}

func (r *SaleRepository) filter(f *dto.SaleFilters) []model.Sale {
	var items []model.Sale
	r.s.read(func(d *dataset) {
		for _, s := range d.sales {
			if s.OwnerID != f.OwnerID {
				continue
			}
			if f.Platform != "" && s.Platform != f.Platform {
				continue
			}
			if f.Returned != nil && s.IsReturned != *f.Returned {
				continue
			}
			if f.SearchQuery != "" && !matchesSale(s, f.SearchQuery) {
				continue
			}
			if !inRange(s.Date, f.StartDate, f.EndDate) {
				continue
			}
			items = append(items, s)
		}
	})
	newestFirst(items, func(s model.Sale) time.Time { return s.Date }, func(s model.Sale) time.Time { return s.CreatedAt })
	return items
}

func matchesSale(s model.Sale, q string) bool {
	if s.OrderID != nil && ilike(*s.OrderID, q) {
		return true
	}
	return ilike(s.CustomerName, q) || ilike(s.InvoiceNumber, q) || ilike(s.ProductName, q)
}

func (r *SaleRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	items := r.filter(f)
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *SaleRepository) Summarize(ctx context.Context, f *dto.SaleFilters) (*dto.SaleSummary, error) {
	items := r.filter(f)
	var total, amount, gst, cost, received, commission, selling, profit []float64
	for _, s := range items {
		total = append(total, s.TotalAmount)
		amount = append(amount, s.Amount)
		gst = append(gst, s.GSTAmount)
		cost = append(cost, s.CostPrice*float64(s.Quantity))
		received = append(received, s.AmountReceived)
		commission = append(commission, s.PlatformCommission)
		selling = append(selling, s.SellingExpenseAmount)
		profit = append(profit, s.ProfitAmount)
	}
	return &dto.SaleSummary{
		Count:                len(items),
		TotalSales:           finance.Sum(total...),
		TotalAmount:          finance.Sum(amount...),
		TotalGST:             finance.Sum(gst...),
		TotalCost:            finance.Sum(cost...),
		TotalReceived:        finance.Sum(received...),
		TotalCommission:      finance.Sum(commission...),
		TotalSellingExpenses: finance.Sum(selling...),
		TotalProfit:          finance.Sum(profit...),
	}, nil
}

// Update leaves the return link alone; SetReturn owns it.
func (r *SaleRepository) Update(ctx context.Context, s *model.Sale) error {
	return r.s.write(ctx, func(d *dataset) error {
		stored, ok := d.sales[s.ID]
		if !ok || stored.OwnerID != s.OwnerID {
			return nil
		}
		if orderTaken(d, s) {
			return apperr.Conflict("a sale with this order id already exists")
		}
		next := *s
		next.IsReturned = stored.IsReturned
		next.ReturnID = stored.ReturnID
		d.sales[s.ID] = next
		return nil
	})
}

// Delete also clears the sale link on its returns, like ON DELETE SET NULL.
func (r *SaleRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		s, ok := d.sales[id]
		if !ok || s.OwnerID != ownerID {
			return nil
		}
		delete(d.sales, id)
		for rid, ret := range d.returns {
			if ret.SaleID != nil && *ret.SaleID == id {
				ret.SaleID = nil
				d.returns[rid] = ret
			}
		}
		return nil
	})
}

func (r *SaleRepository) SetReturn(ctx context.Context, ownerID, saleID string, returnID *string) error {
	return r.s.write(ctx, func(d *dataset) error {
		s, ok := d.sales[saleID]
		if !ok || s.OwnerID != ownerID {
			return nil
		}
		s.IsReturned = returnID != nil
		s.ReturnID = returnID
		s.UpdatedAt = time.Now()
		d.sales[saleID] = s
		return nil
	})
}
