package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/inventory"
	invuc "github.com/fekuna/accountbook-service/internal/inventory/usecase"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	productdto "github.com/fekuna/accountbook-service/internal/product/dto"
	productuc "github.com/fekuna/accountbook-service/internal/product/usecase"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
	"github.com/fekuna/accountbook-service/internal/store/memory"
)

const owner = "owner-1"

type fixture struct {
	uc     *saleUseCase
	repo   *memory.SaleRepository
	stock  *memory.InventoryRepository
	store  *memory.Store
	ledger inventory.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	stock := memory.NewInventoryRepository(store)
	repo := memory.NewSaleRepository(store)
	ledger := invuc.NewInventoryUseCase(stock, store, cache.NopLocker(), broker.NopPublisher(), logger.NewNop())
	uc := NewSaleUseCase(repo, ledger, finance.NewFYCalendar(4), cache.NopStore(), logger.NewNop()).(*saleUseCase)
	return &fixture{uc: uc, repo: repo, stock: stock, store: store, ledger: ledger}
}

func (f *fixture) rename(t *testing.T, id, name string) {
	t.Helper()
	products := productuc.NewProductUseCase(memory.NewProductRepository(f.store), f.ledger, logger.NewNop())
	if _, err := products.UpdateProduct(context.Background(), &productdto.UpdateProductInput{ID: id, OwnerID: owner, Name: name}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
}

func (f *fixture) seed(t *testing.T, name string, opening int) {
	t.Helper()
	p := &model.Product{
		BaseModel:    model.BaseModel{ID: name + "-id"},
		OwnerID:      owner,
		Name:         name,
		NameKey:      model.NameKey(name),
		OpeningStock: opening,
	}
	p.SetLedger(opening)
	if err := f.stock.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
}

func (f *fixture) currentStock(t *testing.T, name string) int {
	t.Helper()
	p, err := f.stock.FindProductByKey(context.Background(), model.KeyOf(owner, name))
	if err != nil || p == nil {
		t.Fatalf("FindProductByKey(%s) = %v, %v", name, p, err)
	}
	return p.CurrentStock
}

func input(product string, qty int, orderID string) *dto.SaleInput {
	return &dto.SaleInput{
		OwnerID:       owner,
		Date:          time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local),
		OrderID:       orderID,
		CustomerName:  "Asha",
		ProductName:   product,
		Quantity:      qty,
		UnitPrice:     500,
		GSTPercentage: 18,
		CostPrice:     300,
	}
}

func TestCreateSale_RemovesStockAndComputesProfit(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "Gown-A", 15)

	res, err := f.uc.CreateSale(context.Background(), input("Gown-A", 2, "ORD-1"))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	s := res.Sale
	if s.Amount != 1000 || s.GSTAmount != 180 || s.TotalAmount != 1180 {
		t.Fatalf("amounts = %v/%v/%v, want 1000/180/1180", s.Amount, s.GSTAmount, s.TotalAmount)
	}
	if s.AmountReceived != 1180 || s.ProfitAmount != 580 || s.Platform != model.DefaultPlatform {
		t.Fatalf("sale = %+v", s)
	}
	if got := f.currentStock(t, "Gown-A"); got != 13 {
		t.Fatalf("stock = %d, want 13", got)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}
}

func TestCreateSale_UnknownProductWarns(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.CreateSale(context.Background(), input("Ghost", 1, ""))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if len(res.Warnings) != 1 || res.Stock[0].Moved() {
		t.Fatalf("result = %+v, want one warning and no movement", res)
	}
	if _, err := f.uc.GetSale(context.Background(), owner, res.Sale.ID); err != nil {
		t.Fatalf("sale should be kept: %v", err)
	}
}

func TestCreateSale_DuplicateOrderID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "Gown-A", 15)

	if _, err := f.uc.CreateSale(ctx, input("Gown-A", 1, "ORD-9")); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if _, err := f.uc.CreateSale(ctx, input("Gown-A", 1, " ORD-9 ")); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate order error = %v, want conflict", err)
	}
	if got := f.currentStock(t, "Gown-A"); got != 14 {
		t.Fatalf("stock = %d, want 14 after the rejected sale", got)
	}

	// Blank order ids never clash.
	for i := 0; i < 2; i++ {
		if _, err := f.uc.CreateSale(ctx, input("Gown-A", 1, "")); err != nil {
			t.Fatalf("CreateSale without order id: %v", err)
		}
	}
}

func TestUpdateSale_Reconciles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "Gown-A", 10)
	f.seed(t, "Gown-B", 10)

	res, err := f.uc.CreateSale(ctx, input("Gown-A", 3, "ORD-1"))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	id := res.Sale.ID

	if _, err := f.uc.UpdateSale(ctx, id, input("Gown-A", 1, "ORD-1")); err != nil {
		t.Fatalf("UpdateSale quantity: %v", err)
	}
	if got := f.currentStock(t, "Gown-A"); got != 9 {
		t.Fatalf("stock after quantity edit = %d, want 9", got)
	}

	if _, err := f.uc.UpdateSale(ctx, id, input("Gown-B", 4, "ORD-1")); err != nil {
		t.Fatalf("UpdateSale product: %v", err)
	}
	if a, b := f.currentStock(t, "Gown-A"), f.currentStock(t, "Gown-B"); a != 10 || b != 6 {
		t.Fatalf("stock after product change = %d/%d, want 10/6", a, b)
	}
}

func TestUpdateSale_ReturnedSaleIsFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "Gown-A", 10)

	res, err := f.uc.CreateSale(ctx, input("Gown-A", 2, "ORD-1"))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	returnID := "ret-1"
	if err := f.repo.SetReturn(ctx, owner, res.Sale.ID, &returnID); err != nil {
		t.Fatalf("SetReturn: %v", err)
	}

	if _, err := f.uc.UpdateSale(ctx, res.Sale.ID, input("Gown-A", 1, "ORD-1")); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("quantity edit on returned sale error = %v, want validation", err)
	}

	edit := input("Gown-A", 2, "ORD-1")
	edit.CustomerName = "Asha K"
	updated, err := f.uc.UpdateSale(ctx, res.Sale.ID, edit)
	if err != nil {
		t.Fatalf("metadata edit: %v", err)
	}
	stored, _ := f.uc.GetSale(ctx, owner, updated.Sale.ID)
	if !stored.IsReturned || stored.ReturnID == nil || *stored.ReturnID != returnID {
		t.Fatalf("return link lost on edit: %+v", stored)
	}
}

func TestDeleteSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "Gown-A", 12)

	res, err := f.uc.CreateSale(ctx, input("Gown-A", 3, ""))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if err := f.uc.DeleteSale(ctx, owner, res.Sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if got := f.currentStock(t, "Gown-A"); got != 12 {
		t.Fatalf("stock = %d, want 12", got)
	}

	// A returned sale already had its stock put back by the return.
	res, err = f.uc.CreateSale(ctx, input("Gown-A", 2, ""))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	returnID := "ret-1"
	if err := f.repo.SetReturn(ctx, owner, res.Sale.ID, &returnID); err != nil {
		t.Fatalf("SetReturn: %v", err)
	}
	if err := f.uc.DeleteSale(ctx, owner, res.Sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if got := f.currentStock(t, "Gown-A"); got != 10 {
		t.Fatalf("stock = %d, want 10", got)
	}
}

func TestDeleteSale_FollowsHeldStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "Gown-A", 10)

	sold, err := f.uc.CreateSale(ctx, input("Gown-A", 3, "ORD-1"))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	f.rename(t, "Gown-A-id", "Gown-Alpha")
	if err := f.uc.DeleteSale(ctx, owner, sold.Sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if got := f.currentStock(t, "Gown-Alpha"); got != 10 {
		t.Fatalf("renamed product stock = %d, want 10", got)
	}

	// A sale that never moved stock gives nothing back, even once the
	// product exists.
	ghost, err := f.uc.CreateSale(ctx, input("Ghost", 2, ""))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	f.seed(t, "Ghost", 5)
	if err := f.uc.DeleteSale(ctx, owner, ghost.Sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if got := f.currentStock(t, "Ghost"); got != 5 {
		t.Fatalf("ghost stock = %d, want 5", got)
	}
}

func TestListSales_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, "Gown-A", 20)

	inclusive := input("Gown-A", 1, "ORD-2")
	inclusive.UnitPrice = 1180
	inclusive.GSTInclusive = true
	inclusive.AmountReceived = 944
	inclusive.Platform = "Amazon"
	for _, in := range []*dto.SaleInput{input("Gown-A", 2, "ORD-1"), inclusive} {
		if _, err := f.uc.CreateSale(ctx, in); err != nil {
			t.Fatalf("CreateSale: %v", err)
		}
	}

	items, count, summary, err := f.uc.ListSales(ctx, &dto.SaleFilters{OwnerID: owner})
	if err != nil || count != 2 || len(items) != 2 {
		t.Fatalf("ListSales = %d items, count %d, %v", len(items), count, err)
	}
	want := dto.SaleSummary{
		Count:           2,
		TotalSales:      2360,
		TotalAmount:     1800,
		TotalGST:        324,
		TotalCost:       900,
		TotalReceived:   2124,
		TotalCommission: 236,
		TotalProfit:     1080,
	}
	if *summary != want {
		t.Fatalf("summary = %+v, want %+v", *summary, want)
	}

	_, count, _, _ = f.uc.ListSales(ctx, &dto.SaleFilters{OwnerID: owner, Platform: "Amazon"})
	if count != 1 {
		t.Fatalf("platform filter count = %d, want 1", count)
	}
	_, count, _, _ = f.uc.ListSales(ctx, &dto.SaleFilters{OwnerID: owner, SearchQuery: "ord-2"})
	if count != 1 {
		t.Fatalf("search count = %d, want 1", count)
	}
}
