package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/product/dto"
)

type ProductRepository struct {
	s *Store
}

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(d *dataset) error {
		return insertProduct(d, p)
	})
}

func (r *ProductRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Product, error) {
	var found *model.Product
	r.s.read(func(d *dataset) {
		if p, ok := d.products[id]; ok && p.OwnerID == ownerID {
			found = &p
		}
	})
	return found, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var items []model.Product
	r.s.read(func(d *dataset) {
		for _, p := range d.products {
			if p.OwnerID != f.OwnerID {
				continue
			}
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if f.SearchQuery != "" && !ilike(p.Name, f.SearchQuery) && !ilike(p.ProductCode, f.SearchQuery) {
				continue
			}
			if f.LowStockOnly && !p.IsLowStock() {
				continue
			}
			items = append(items, p)
		}
	})

	desc := f.SortBy != "" && strings.ToLower(f.SortOrder) == "desc"
	less := func(i, j int) bool { return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name) }
	switch f.SortBy {
	case "stock":
		less = func(i, j int) bool { return items[i].CurrentStock < items[j].CurrentStock }
	case "created_at":
		less = func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

// Update writes product metadata only; stock moves through the ledger.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	return r.s.write(ctx, func(d *dataset) error {
		stored, ok := d.products[p.ID]
		if !ok || stored.OwnerID != p.OwnerID {
			return nil
		}
		for id, other := range d.products {
			if id != p.ID && other.OwnerID == p.OwnerID && other.NameKey == p.NameKey {
				return apperr.Conflict("product %q already exists", p.Name)
			}
		}
		stored.Name = p.Name
		stored.NameKey = p.NameKey
		stored.ProductCode = p.ProductCode
		stored.Category = p.Category
		stored.Unit = p.Unit
		stored.MinimumStock = p.MinimumStock
		stored.Location = p.Location
		stored.Notes = p.Notes
		stored.UpdatedAt = p.UpdatedAt
		d.products[p.ID] = stored
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		if p, ok := d.products[id]; ok && p.OwnerID == ownerID {
			delete(d.products, id)
		}
		return nil
	})
}

func (r *ProductRepository) IsNameUnique(ctx context.Context, key model.ProductKey, excludeID string) (bool, error) {
	unique := true
	r.s.read(func(d *dataset) {
		for id, p := range d.products {
			if id != excludeID && p.OwnerID == key.OwnerID && p.NameKey == key.Name {
				unique = false
				return
			}
		}
	})
	return unique, nil
}

func (r *ProductRepository) CountMovements(ctx context.Context, ownerID, productID string) (int, error) {
	var count int
	r.s.read(func(d *dataset) {
		for _, m := range d.movements {
			if m.OwnerID == ownerID && m.ProductID == productID {
				count++
			}
		}
	})
	return count, nil
}
