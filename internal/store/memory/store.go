// Package memory keeps the books in process memory. It implements every
// repository interface and the unit-of-work contract, and backs
// STORE_DRIVER=memory as well as the use-case tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/accountbook-service/internal/model"
)

type txKey struct{}

// Store serialises units of work with txMu and guards the data with mu. A
// failed unit of work restores the snapshot taken when it began.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *dataset
}

type dataset struct {
	products   map[string]model.Product
	movements  []model.StockMovement
	purchases  map[string]model.Purchase
	sales      map[string]model.Sale
	returns    map[string]model.SalesReturn
	assets     map[string]model.Asset
	expenses   map[string]model.Expense
	categories map[string]model.ExpenseCategory
}

func newDataset() *dataset {
	return &dataset{
		products:   map[string]model.Product{},
		purchases:  map[string]model.Purchase{},
		sales:      map[string]model.Sale{},
		returns:    map[string]model.SalesReturn{},
		assets:     map[string]model.Asset{},
		expenses:   map[string]model.Expense{},
		categories: map[string]model.ExpenseCategory{},
	}
}

// clone copies the maps and slices. Records are values; the pointer fields
// they carry are never mutated in place, so sharing them is safe.
func (d *dataset) clone() *dataset {
	c := &dataset{
		products:   cloneMap(d.products),
		movements:  append([]model.StockMovement(nil), d.movements...),
		purchases:  cloneMap(d.purchases),
		sales:      cloneMap(d.sales),
		returns:    cloneMap(d.returns),
		assets:     cloneMap(d.assets),
		expenses:   cloneMap(d.expenses),
		categories: cloneMap(d.categories),
	}
	return c
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithinTx runs fn as one unit of work. Nested calls join the outer one.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// write applies fn to the data. Outside a unit of work it still waits for
// running units so a rollback cannot discard it.
func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	start := (max(page, 1) - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	return items[start:min(start+pageSize, len(items))]
}

// ilike mirrors a case-insensitive substring match.
func ilike(value, query string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// newestFirst orders by a date then creation time, both descending.
func newestFirst[T any](items []T, date func(T) time.Time, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := date(items[i]), date(items[j])
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return created(items[i]).After(created(items[j]))
	})
}
