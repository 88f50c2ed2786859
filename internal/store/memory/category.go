package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/accountbook-service/internal/category/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type CategoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{s: s}
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.ExpenseCategory) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) FindByID(ctx context.Context, ownerID, id string) (*model.ExpenseCategory, error) {
	var found *model.ExpenseCategory
	r.s.read(func(d *dataset) {
		if c, ok := d.categories[id]; ok && c.OwnerID == ownerID {
			found = &c
		}
	})
	return found, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.ExpenseCategory, int, error) {
	var items []model.ExpenseCategory
	r.s.read(func(d *dataset) {
		for _, c := range d.categories {
			if c.OwnerID != f.OwnerID || (f.SellingOnly && !c.IsSellingExpense) {
				continue
			}
			items = append(items, c)
		}
	})
	sort.Slice(items, func(i, j int) bool { return items[i].CategoryName < items[j].CategoryName })
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.ExpenseCategory) error {
	return r.s.write(ctx, func(d *dataset) error {
		if stored, ok := d.categories[c.ID]; ok && stored.OwnerID == c.OwnerID {
			d.categories[c.ID] = *c
		}
		return nil
	})
}

func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		if c, ok := d.categories[id]; ok && c.OwnerID == ownerID {
			delete(d.categories, id)
		}
		return nil
	})
}

func (r *CategoryRepository) IsNameUnique(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	unique := true
	r.s.read(func(d *dataset) {
		for id, c := range d.categories {
			if id != excludeID && c.OwnerID == ownerID && strings.EqualFold(c.CategoryName, name) {
				unique = false
				return
			}
		}
	})
	return unique, nil
}
