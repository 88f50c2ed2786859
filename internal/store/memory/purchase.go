package memory

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/purchase/dto"
)

type PurchaseRepository struct {
	s *Store
}

func NewPurchaseRepository(s *Store) *PurchaseRepository {
	return &PurchaseRepository{s: s}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *model.Purchase) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.purchases[p.ID] = *p
		return nil
	})
}

func (r *PurchaseRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Purchase, error) {
	var found *model.Purchase
	r.s.read(func(d *dataset) {
		if p, ok := d.purchases[id]; ok && p.OwnerID == ownerID {
			found = &p
		}
	})
	return found, nil
}

func (r *PurchaseRepository) filter(f *dto.PurchaseFilters) []model.Purchase {
	var items []model.Purchase
	r.s.read(func(d *dataset) {
		for _, p := range d.purchases {
			if p.OwnerID != f.OwnerID {
				continue
			}
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if f.SearchQuery != "" && !ilike(p.SupplierName, f.SearchQuery) && !ilike(p.ItemName, f.SearchQuery) && !ilike(p.InvoiceNumber, f.SearchQuery) {
				continue
			}
			if !inRange(p.Date, f.StartDate, f.EndDate) {
				continue
			}
			items = append(items, p)
		}
	})
	newestFirst(items, func(p model.Purchase) time.Time { return p.Date }, func(p model.Purchase) time.Time { return p.CreatedAt })
	return items
}

func (r *PurchaseRepository) FindAll(ctx context.Context, f *dto.PurchaseFilters) ([]model.Purchase, int, error) {
	items := r.filter(f)
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *PurchaseRepository) Summarize(ctx context.Context, f *dto.PurchaseFilters) (*dto.PurchaseSummary, error) {
	items := r.filter(f)
	var amount, gst, total []float64
	for _, p := range items {
		amount = append(amount, p.Amount)
		gst = append(gst, p.GSTAmount)
		total = append(total, p.TotalAmount)
	}
	return &dto.PurchaseSummary{
		Count:       len(items),
		TotalAmount: finance.Sum(amount...),
		TotalGST:    finance.Sum(gst...),
		GrandTotal:  finance.Sum(total...),
	}, nil
}

func (r *PurchaseRepository) Update(ctx context.Context, p *model.Purchase) error {
	return r.s.write(ctx, func(d *dataset) error {
		if stored, ok := d.purchases[p.ID]; ok && stored.OwnerID == p.OwnerID {
			d.purchases[p.ID] = *p
		}
		return nil
	})
}

func (r *PurchaseRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		if p, ok := d.purchases[id]; ok && p.OwnerID == ownerID {
			delete(d.purchases, id)
		}
		return nil
	})
}
