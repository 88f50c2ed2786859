package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"

	assetdto "github.com/fekuna/accountbook-service/internal/asset/dto"
	assetuc "github.com/fekuna/accountbook-service/internal/asset/usecase"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/importer/dto"
	invuc "github.com/fekuna/accountbook-service/internal/inventory/usecase"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	purchasedto "github.com/fekuna/accountbook-service/internal/purchase/dto"
	purchaseuc "github.com/fekuna/accountbook-service/internal/purchase/usecase"
	saledto "github.com/fekuna/accountbook-service/internal/sale/dto"
	saleuc "github.com/fekuna/accountbook-service/internal/sale/usecase"
	"github.com/fekuna/accountbook-service/internal/store/memory"
	"github.com/xuri/excelize/v2"
)

const owner = "owner-1"

var (
	purchaseFilters = purchasedto.PurchaseFilters{OwnerID: owner}
	assetFilters    = assetdto.AssetFilters{OwnerID: owner}
)

type fixture struct {
	uc        *importUseCase
	stock     *memory.InventoryRepository
	sales     *memory.SaleRepository
	purchases *memory.PurchaseRepository
	assets    *memory.AssetRepository
}

func newFixture(t *testing.T, maxRows int) *fixture {
	t.Helper()
	store := memory.NewStore()
	stock := memory.NewInventoryRepository(store)
	sales := memory.NewSaleRepository(store)
	purchases := memory.NewPurchaseRepository(store)
	assets := memory.NewAssetRepository(store)

	log := logger.NewNop()
	calendar := finance.NewFYCalendar(4)
	ledger := invuc.NewInventoryUseCase(stock, store, cache.NopLocker(), broker.NopPublisher(), log)
	uc := NewImportUseCase(
		purchaseuc.NewPurchaseUseCase(purchases, ledger, calendar, cache.NopStore(), log),
		saleuc.NewSaleUseCase(sales, ledger, calendar, cache.NopStore(), log),
		assetuc.NewAssetUseCase(assets, cache.NopStore(), log),
		maxRows,
		log,
	).(*importUseCase)
	return &fixture{uc: uc, stock: stock, sales: sales, purchases: purchases, assets: assets}
}

func (f *fixture) currentStock(t *testing.T, name string) int {
	t.Helper()
	p, err := f.stock.FindProductByKey(context.Background(), model.KeyOf(owner, name))
	if err != nil || p == nil {
		t.Fatalf("FindProductByKey(%s) = %v, %v", name, p, err)
	}
	return p.CurrentStock
}

func csvFile(t *testing.T, records ...[]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return &buf
}

var purchaseHeader = []string{"date", "supplier_name", "category", "item_name", "quantity", "unit_price", "gst_percentage"}

func TestImportPurchases_BadRowIsSkipped(t *testing.T) {
	f := newFixture(t, 0)

	records := [][]string{purchaseHeader}
	for i := 1; i <= 10; i++ {
		qty := "1"
		if i == 4 {
			qty = "three"
		}
		records = append(records, []string{fmt.Sprintf("%02d-04-2024", i), "Surat Textiles", "Gowns", "Gown-A", qty, "250", "5%"})
	}

	res, err := f.uc.Import(context.Background(), owner, dto.EntityPurchases, "purchases.csv", csvFile(t, records...))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.SuccessCount != 9 || res.ErrorCount != 1 {
		t.Fatalf("result = %+v, want 9 imported and 1 failed", res)
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 5 || !strings.Contains(res.Errors[0].Message, "quantity") {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if got := f.currentStock(t, "Gown-A"); got != 9 {
		t.Fatalf("stock = %d, want 9", got)
	}

	stored, count, err := f.purchases.FindAll(context.Background(), &purchaseFilters)
	if err != nil || count != 9 {
		t.Fatalf("stored purchases = %d, %v", count, err)
	}
	if stored[0].GSTPercentage != 5 || stored[0].TotalAmount != 262.5 {
		t.Fatalf("stored purchase = %+v", stored[0])
	}
}

func TestImport_RejectsFile(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	tests := []struct {
		name   string
		entity dto.Entity
		body   *bytes.Buffer
		want   string
	}{
		{"empty", dto.EntityPurchases, &bytes.Buffer{}, "empty"},
		{"header only", dto.EntityPurchases, csvFile(t, purchaseHeader), "empty"},
		{"missing columns", dto.EntityPurchases, csvFile(t, []string{"date", "item_name", "quantity"}, []string{"01-04-2024", "Gown", "1"}), "supplier_name, category, unit_price, gst_percentage"},
		{"too many rows", dto.EntityPurchases, csvFile(t, purchaseHeader,
			[]string{"01-04-2024", "S", "C", "I", "1", "1", "0"},
			[]string{"01-04-2024", "S", "C", "I", "1", "1", "0"},
			[]string{"01-04-2024", "S", "C", "I", "1", "1", "0"},
		), "limit is 2"},
		{"unknown entity", dto.Entity("invoices"), csvFile(t, purchaseHeader), "unknown import type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Import(ctx, owner, tc.entity, "upload.csv", tc.body)
			if !errors.Is(err, apperr.ErrValidation) || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want validation mentioning %q", err, tc.want)
			}
		})
	}
	if _, count, _ := f.purchases.FindAll(ctx, &purchaseFilters); count != 0 {
		t.Fatalf("rejected files stored %d purchases", count)
	}
}

func TestImportSales_WarningsAndPreview(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	header := []string{"Date", "Platform", "Product_Name", "Quantity", "Unit_Price", "GST_Percentage", "GST_Inclusive", "Order_ID"}
	records := [][]string{header,
		{"05-05-2024", "Meesho", "Ghost", "1", "1180", "18", "TRUE", "ORD-1"},
	}
	for i := 0; i < 7; i++ {
		records = append(records, []string{"bad-date", "Meesho", "Gown", "1", "100", "5", "", ""})
	}

	res, err := f.uc.Import(ctx, owner, dto.EntitySales, "sales.csv", csvFile(t, records...))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.SuccessCount != 1 || res.ErrorCount != 7 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Preview) != 5 || res.Preview[0].Row != 3 || res.Preview[4].Row != 7 {
		t.Fatalf("preview = %+v", res.Preview)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Row != 2 {
		t.Fatalf("warnings = %+v", res.Warnings)
	}

	items, _, err := f.sales.FindAll(ctx, &saledto.SaleFilters{OwnerID: owner})
	if err != nil || len(items) != 1 {
		t.Fatalf("stored sales = %d, %v", len(items), err)
	}
	s := items[0]
	if !s.GSTInclusive || s.Amount != 1000 || s.PaymentMethod != "Online" || s.OrderID == nil || *s.OrderID != "ORD-1" {
		t.Fatalf("stored sale = %+v", s)
	}

	// Re-importing the same order hits the duplicate check row by row.
	res, err = f.uc.Import(ctx, owner, dto.EntitySales, "sales.csv", csvFile(t, records[:2]...))
	if err != nil || res.ErrorCount != 1 || !strings.Contains(res.Errors[0].Message, "ORD-1") {
		t.Fatalf("re-import = %+v, %v", res, err)
	}
}

func TestImportAssets_FromWorkbook(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	wb := excelize.NewFile()
	rows := [][]interface{}{
		{"asset_name", "category", "purchase_date", "purchase_price", "gst_percentage", "depreciation_method", "useful_life_years"},
		{"Laptop", "", 45292, "60,000", "18", "Straight Line", "5"},
		{"Camera", "Equipment", "15-Jan-2024", "25000", "0.18", "Written Down Value", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := wb.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	res, err := f.uc.Import(ctx, owner, dto.EntityAssets, "assets.XLSX", buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.SuccessCount != 2 || res.ErrorCount != 0 {
		t.Fatalf("result = %+v", res)
	}

	items, _, err := f.assets.FindAll(ctx, &assetFilters)
	if err != nil || len(items) != 2 {
		t.Fatalf("stored assets = %d, %v", len(items), err)
	}
	byName := map[string]model.Asset{}
	for _, a := range items {
		byName[a.AssetName] = a
	}
	laptop := byName["Laptop"]
	if laptop.PurchaseDate.Format("2006-01-02") != "2024-01-01" || laptop.PurchasePrice != 60000 || laptop.Category != "Computer" {
		t.Fatalf("laptop = %+v", laptop)
	}
	camera := byName["Camera"]
	if camera.GSTPercentage != 18 || camera.DepreciationMethod != string(finance.WrittenDownValue) || camera.UsefulLifeYears != 5 {
		t.Fatalf("camera = %+v", camera)
	}
}

func TestTemplate(t *testing.T) {
	f := newFixture(t, 0)

	for _, entity := range []dto.Entity{dto.EntityPurchases, dto.EntitySales, dto.EntityAssets} {
		name, data, err := f.uc.Template(entity)
		if err != nil {
			t.Fatalf("Template(%s): %v", entity, err)
		}
		if name != string(entity)+"_template.csv" {
			t.Fatalf("name = %q", name)
		}
		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil || len(records) != 2 {
			t.Fatalf("template records = %v, %v", records, err)
		}
		tbl := newTable(records)
		if missing := tbl.missing(f.uc.layouts[entity].required); len(missing) != 0 {
			t.Fatalf("template for %s lacks %v", entity, missing)
		}
	}

	// The sample rows themselves import cleanly.
	for _, entity := range []dto.Entity{dto.EntityPurchases, dto.EntitySales, dto.EntityAssets} {
		_, data, _ := f.uc.Template(entity)
		res, err := f.uc.Import(context.Background(), owner, entity, "sample.csv", bytes.NewReader(data))
		if err != nil || res.SuccessCount != 1 {
			t.Fatalf("sample import for %s = %+v, %v", entity, res, err)
		}
	}

	if _, _, err := f.uc.Template("invoices"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("unknown template error = %v", err)
	}
}
