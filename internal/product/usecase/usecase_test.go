package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/accountbook-service/internal/inventory"
	invdto "github.com/fekuna/accountbook-service/internal/inventory/dto"
	invuc "github.com/fekuna/accountbook-service/internal/inventory/usecase"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/product/dto"
	"github.com/fekuna/accountbook-service/internal/store/memory"
)

const owner = "owner-1"

func newUseCase(t *testing.T) (*productUseCase, inventory.UseCase) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewNop()
	ledger := invuc.NewInventoryUseCase(memory.NewInventoryRepository(store), store, cache.NopLocker(), broker.NopPublisher(), log)
	return NewProductUseCase(memory.NewProductRepository(store), ledger, log).(*productUseCase), ledger
}

func TestCreateProduct(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{OwnerID: owner, Name: "  Gown-A ", OpeningStock: 12})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if p.Name != "Gown-A" || p.CurrentStock != 12 || p.LedgerBalance != 12 {
		t.Fatalf("product = %+v", p)
	}
	if p.Category != model.DefaultProductCategory || p.Unit != model.DefaultProductUnit || p.MinimumStock != model.DefaultMinimumStock {
		t.Fatalf("defaults not applied: %+v", p)
	}

	tests := []struct {
		name  string
		input dto.CreateProductInput
	}{
		{"blank name", dto.CreateProductInput{OwnerID: owner, Name: "  "}},
		{"negative opening", dto.CreateProductInput{OwnerID: owner, Name: "Gown-B", OpeningStock: -1}},
		{"duplicate name", dto.CreateProductInput{OwnerID: owner, Name: "gown-a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.CreateProduct(ctx, &tc.input); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}

	// Names are unique per owner only.
	if _, err := uc.CreateProduct(ctx, &dto.CreateProductInput{OwnerID: "owner-2", Name: "Gown-A"}); err != nil {
		t.Fatalf("other owner: %v", err)
	}
}

func TestUpdateProduct_KeepsStock(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	a, _ := uc.CreateProduct(ctx, &dto.CreateProductInput{OwnerID: owner, Name: "Gown-A", OpeningStock: 7})
	if _, err := uc.CreateProduct(ctx, &dto.CreateProductInput{OwnerID: owner, Name: "Gown-B"}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	minimum := 1
	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: a.ID, OwnerID: owner, Name: "GOWN-A", Unit: "Sets", MinimumStock: &minimum})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Name != "GOWN-A" || updated.Unit != "Sets" || updated.Category != model.DefaultProductCategory || updated.MinimumStock != 1 || updated.CurrentStock != 7 {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: a.ID, OwnerID: owner, Name: "gown-b"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("rename clash error = %v", err)
	}
	if _, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: a.ID, OwnerID: "owner-2", Name: "X"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("other owner error = %v", err)
	}
}

func TestDeleteProduct_RefusesWithHistory(t *testing.T) {
	uc, ledger := newUseCase(t)
	ctx := context.Background()

	moved, _ := uc.CreateProduct(ctx, &dto.CreateProductInput{OwnerID: owner, Name: "Gown-A", OpeningStock: 3})
	idle, _ := uc.CreateProduct(ctx, &dto.CreateProductInput{OwnerID: owner, Name: "Gown-B"})

	_, err := ledger.Apply(ctx, owner, invdto.StockChange{
		ProductName: "Gown-A", Direction: model.DirectionOut, Quantity: 1,
		ReferenceType: model.RefSale, ReferenceID: "sale-1",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if err := uc.DeleteProduct(ctx, owner, moved.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("delete with history error = %v, want conflict", err)
	}
	if err := uc.DeleteProduct(ctx, owner, idle.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := uc.GetProduct(ctx, owner, idle.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("deleted product lookup error = %v", err)
	}
	if err := uc.DeleteProduct(ctx, owner, idle.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete error = %v", err)
	}
}

func TestListProducts(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	for _, in := range []dto.CreateProductInput{
		{OwnerID: owner, Name: "Saree", OpeningStock: 40, Category: "Sarees"},
		{OwnerID: owner, Name: "Gown-A", OpeningStock: 2, ProductCode: "GW-1"},
		{OwnerID: owner, Name: "Gown-B", OpeningStock: 20},
	} {
		if _, err := uc.CreateProduct(ctx, &in); err != nil {
			t.Fatalf("CreateProduct(%s): %v", in.Name, err)
		}
	}

	tests := []struct {
		name    string
		filters dto.ProductFilters
		want    []string
	}{
		{"by name", dto.ProductFilters{}, []string{"Gown-A", "Gown-B", "Saree"}},
		{"stock desc", dto.ProductFilters{SortBy: "stock", SortOrder: "desc"}, []string{"Saree", "Gown-B", "Gown-A"}},
		{"low stock", dto.ProductFilters{LowStockOnly: true}, []string{"Gown-A"}},
		{"category", dto.ProductFilters{Category: "Sarees"}, []string{"Saree"}},
		{"code search", dto.ProductFilters{SearchQuery: "gw-"}, []string{"Gown-A"}},
		{"second page", dto.ProductFilters{Page: 2, PageSize: 2}, []string{"Saree"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.filters.OwnerID = owner
			items, _, err := uc.ListProducts(ctx, &tc.filters)
			if err != nil {
				t.Fatalf("ListProducts: %v", err)
			}
			var got []string
			for _, p := range items {
				got = append(got, p.Name)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}
