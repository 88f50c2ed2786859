package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/accountbook-service/internal/model"
)

func product(id, name string, stock int) *model.Product {
	now := time.Now()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		OwnerID:   "owner-1",
		Name:      name,
		NameKey:   model.NameKey(name),
	}
	p.SetLedger(stock)
	return p
}

func TestWithinTx_RollsBack(t *testing.T) {
	s := NewStore()
	repo := NewProductRepository(s)
	ctx := context.Background()

	if err := repo.Create(ctx, product("p1", "Gown-A", 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := repo.Create(ctx, product("p2", "Gown-B", 1)); err != nil {
			return err
		}
		// Nested units of work join the outer one.
		return s.WithinTx(ctx, func(ctx context.Context) error {
			if err := repo.Delete(ctx, "owner-1", "p1"); err != nil {
				return err
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx error = %v, want boom", err)
	}

	if p, _ := repo.FindByID(ctx, "owner-1", "p1"); p == nil {
		t.Fatalf("p1 was not restored")
	}
	if p, _ := repo.FindByID(ctx, "owner-1", "p2"); p != nil {
		t.Fatalf("p2 survived the rollback")
	}
}

func TestWithinTx_Commits(t *testing.T) {
	s := NewStore()
	repo := NewProductRepository(s)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return repo.Create(ctx, product("p1", "Gown-A", 1))
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	if p, _ := repo.FindByID(ctx, "owner-1", "p1"); p == nil {
		t.Fatalf("committed product missing")
	}
	if p, _ := repo.FindByID(ctx, "owner-2", "p1"); p != nil {
		t.Fatalf("product visible to another owner")
	}
}

func TestWithinTx_Serialises(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		running int
		peak    int
		mu      sync.Mutex
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(ctx context.Context) error {
				mu.Lock()
				running++
				peak = max(peak, running)
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	if peak != 1 {
		t.Fatalf("peak concurrent units of work = %d, want 1", peak)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	tests := []struct {
		page, size int
		want       int
	}{
		{0, 0, 5},
		{1, 2, 2},
		{3, 2, 1},
		{4, 2, 0},
	}
	for _, tc := range tests {
		if got := len(paginate(items, tc.page, tc.size)); got != tc.want {
			t.Errorf("paginate(page=%d, size=%d) len = %d, want %d", tc.page, tc.size, got, tc.want)
		}
	}
}
