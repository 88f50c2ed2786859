package memory

import (
	"context"
	"sort"

	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
)

type InventoryRepository struct {
	s *Store
}

func NewInventoryRepository(s *Store) *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (r *InventoryRepository) FindProductByKey(ctx context.Context, key model.ProductKey) (*model.Product, error) {
	var found *model.Product
	r.s.read(func(d *dataset) {
		for _, p := range d.products {
			if p.OwnerID != key.OwnerID || p.NameKey != key.Name {
				continue
			}
			if found == nil || p.CreatedAt.Before(found.CreatedAt) {
				p := p
				found = &p
			}
		}
	})
	return found, nil
}

func (r *InventoryRepository) FindProductByID(ctx context.Context, ownerID, productID string) (*model.Product, error) {
	var found *model.Product
	r.s.read(func(d *dataset) {
		if p, ok := d.products[productID]; ok && p.OwnerID == ownerID {
			found = &p
		}
	})
	return found, nil
}

func (r *InventoryRepository) ListProducts(ctx context.Context, ownerID string) ([]model.Product, error) {
	var items []model.Product
	r.s.read(func(d *dataset) {
		for _, p := range d.products {
			if p.OwnerID == ownerID {
				items = append(items, p)
			}
		}
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *InventoryRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(d *dataset) error {
		return insertProduct(d, p)
	})
}

// insertProduct enforces the per-owner unique name the way the database
// index does.
func insertProduct(d *dataset, p *model.Product) error {
	for _, existing := range d.products {
		if existing.OwnerID == p.OwnerID && existing.NameKey == p.NameKey {
			return apperr.Conflict("product %q already exists", p.Name)
		}
	}
	d.products[p.ID] = *p
	return nil
}

func (r *InventoryRepository) UpdateStock(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(d *dataset) error {
		stored, ok := d.products[p.ID]
		if !ok || stored.OwnerID != p.OwnerID {
			return nil
		}
		stored.CurrentStock = p.CurrentStock
		stored.LedgerBalance = p.LedgerBalance
		stored.UpdatedAt = p.UpdatedAt
		d.products[p.ID] = stored
		return nil
	})
}

func (r *InventoryRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *InventoryRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	r.s.read(func(d *dataset) {
		// Newest first; later appends win ties on created_at.
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.OwnerID != f.OwnerID {
				continue
			}
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.Direction != "" && m.Direction != f.Direction {
				continue
			}
			if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			if !inRange(m.MovementDate, f.StartDate, f.EndDate) {
				continue
			}
			items = append(items, m)
		}
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *InventoryRepository) SumMovements(ctx context.Context, ownerID, productID string) (int, int, error) {
	var in, out int
	r.s.read(func(d *dataset) {
		for _, m := range d.movements {
			if m.OwnerID != ownerID || m.ProductID != productID {
				continue
			}
			if m.Direction == model.DirectionIn {
				in += m.Quantity
			} else {
				out += m.Quantity
			}
		}
	})
	return in, out, nil
}

func (r *InventoryRepository) Holdings(ctx context.Context, ownerID, referenceID string) ([]dto.Holding, error) {
	if referenceID == "" {
		return nil, nil
	}
	var items []dto.Holding
	r.s.read(func(d *dataset) {
		index := map[string]int{}
		for _, m := range d.movements {
			if m.OwnerID != ownerID || m.ReferenceID != referenceID {
				continue
			}
			i, ok := index[m.ProductID]
			if !ok {
				i = len(items)
				index[m.ProductID] = i
				items = append(items, dto.Holding{ProductID: m.ProductID})
			}
			items[i].ProductName = m.ProductName
			items[i].Quantity += m.Signed()
		}
	})

	held := items[:0]
	for _, h := range items {
		if h.Quantity != 0 {
			held = append(held, h)
		}
	}
	return held, nil
}
