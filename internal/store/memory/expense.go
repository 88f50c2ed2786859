package memory

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/expense/dto"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
)

type ExpenseRepository struct {
	s *Store
}

func NewExpenseRepository(s *Store) *ExpenseRepository {
	return &ExpenseRepository{s: s}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *model.Expense) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.expenses[e.ID] = *e
		return nil
	})
}

func (r *ExpenseRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Expense, error) {
	var found *model.Expense
	r.s.read(func(d *dataset) {
		if e, ok := d.expenses[id]; ok && e.OwnerID == ownerID {
			found = &e
		}
	})
	return found, nil
}

func (r *ExpenseRepository) filter(f *dto.ExpenseFilters) []model.Expense {
	var items []model.Expense
	r.s.read(func(d *dataset) {
		for _, e := range d.expenses {
			if e.OwnerID != f.OwnerID {
				continue
			}
			if f.Category != "" && e.Category != f.Category {
				continue
			}
			if f.SearchQuery != "" && !ilike(e.Description, f.SearchQuery) && !ilike(e.Notes, f.SearchQuery) {
				continue
			}
			if !inRange(e.Date, f.StartDate, f.EndDate) {
				continue
			}
			items = append(items, e)
		}
	})
	newestFirst(items, func(e model.Expense) time.Time { return e.Date }, func(e model.Expense) time.Time { return e.CreatedAt })
	return items
}

func (r *ExpenseRepository) FindAll(ctx context.Context, f *dto.ExpenseFilters) ([]model.Expense, int, error) {
	items := r.filter(f)
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *ExpenseRepository) Summarize(ctx context.Context, f *dto.ExpenseFilters) (*dto.ExpenseSummary, error) {
	items := r.filter(f)
	amounts := make([]float64, 0, len(items))
	for _, e := range items {
		amounts = append(amounts, e.Amount)
	}
	return &dto.ExpenseSummary{Count: len(items), TotalAmount: finance.Sum(amounts...)}, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e *model.Expense) error {
	return r.s.write(ctx, func(d *dataset) error {
		if stored, ok := d.expenses[e.ID]; ok && stored.OwnerID == e.OwnerID {
			d.expenses[e.ID] = *e
		}
		return nil
	})
}

func (r *ExpenseRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		if e, ok := d.expenses[id]; ok && e.OwnerID == ownerID {
			delete(d.expenses, id)
		}
		return nil
	})
}
