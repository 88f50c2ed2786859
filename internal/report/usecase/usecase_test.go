package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	assetdto "github.com/fekuna/accountbook-service/internal/asset/dto"
	assetuc "github.com/fekuna/accountbook-service/internal/asset/usecase"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/report/dto"
	"github.com/fekuna/accountbook-service/internal/store/memory"
	"github.com/xuri/excelize/v2"
)

const owner = "owner-1"

// mapCache is an in-process stand-in for the Redis report cache.
type mapCache struct {
	entries map[string][]byte
}

func (m *mapCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *mapCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mapCache) DeletePattern(context.Context, string) error {
	m.entries = map[string][]byte{}
	return nil
}

type fixture struct {
	uc    *reportUseCase
	sales *memory.SaleRepository
	cache *mapCache
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local) }

	assets := assetuc.NewAssetUseCase(memory.NewAssetRepository(store), &mapCache{entries: map[string][]byte{}}, logger.NewNop())
	if _, err := assets.CreateAsset(ctx, &assetdto.AssetInput{
		OwnerID:         owner,
		AssetName:       "Laptop",
		PurchaseDate:    day(2023, 4, 1),
		PurchasePrice:   60000,
		UsefulLifeYears: 5,
	}); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	sales := memory.NewSaleRepository(store)
	for i, s := range []model.Sale{
		{Date: day(2024, 4, 10), Platform: "Meesho", Amount: 1000, TotalAmount: 1180, ProfitAmount: 300},
		{Date: day(2024, 5, 5), Amount: 500, TotalAmount: 525, ProfitAmount: 100},
		{Date: day(2024, 2, 1), Platform: "Amazon", Amount: 9999, TotalAmount: 9999},
	} {
		s.ID = string(rune('a' + i))
		s.OwnerID = owner
		if err := sales.Create(ctx, &s); err != nil {
			t.Fatalf("create sale: %v", err)
		}
	}
	if err := memory.NewPurchaseRepository(store).Create(ctx, &model.Purchase{
		BaseModel: model.BaseModel{ID: "p1"}, OwnerID: owner, Date: day(2024, 5, 2), Amount: 800, TotalAmount: 840,
	}); err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if err := memory.NewExpenseRepository(store).Create(ctx, &model.Expense{
		BaseModel: model.BaseModel{ID: "e1"}, OwnerID: owner, Date: day(2024, 6, 1), Amount: 100,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if err := memory.NewReturnRepository(store).Create(ctx, &model.SalesReturn{
		BaseModel: model.BaseModel{ID: "r1"}, OwnerID: owner, OrderID: "ORD-1", Date: day(2024, 5, 20), TotalAmount: 525, NetLoss: -80,
	}); err != nil {
		t.Fatalf("create return: %v", err)
	}

	c := &mapCache{entries: map[string][]byte{}}
	uc := NewReportUseCase(memory.NewReportRepository(store), assets, finance.NewFYCalendar(4), c, time.Minute, logger.NewNop()).(*reportUseCase)
	uc.now = now
	return &fixture{uc: uc, sales: sales, cache: c}
}

func TestDashboard_CurrentYear(t *testing.T) {
	f := newFixture(t)

	d, err := f.uc.Dashboard(context.Background(), owner, "")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.FinancialYear != "2024-25" || d.TotalSales != 1500 || d.TotalPurchases != 800 || d.TotalExpenses != 100 || d.NetProfit != 600 {
		t.Fatalf("dashboard totals = %+v", d)
	}
	if d.SalesProfit != 400 || d.ReturnsNetLoss != -80 || d.AssetsValue != 46000 {
		t.Fatalf("dashboard extras = %+v", d)
	}

	wantPlatforms := []dto.PlatformTotal{{Platform: "Meesho", Amount: 1000}, {Platform: "Offline", Amount: 500}}
	if len(d.PlatformSales) != 2 || d.PlatformSales[0] != wantPlatforms[0] || d.PlatformSales[1] != wantPlatforms[1] {
		t.Fatalf("platforms = %+v", d.PlatformSales)
	}

	want := []dto.MonthlyPoint{
		{Month: "Apr 2024", Sales: 1000, Purchases: 0, Profit: 1000},
		{Month: "May 2024", Sales: 500, Purchases: 800, Profit: -300},
		{Month: "Jun 2024", Sales: 0, Purchases: 0, Profit: 0},
	}
	if len(d.Monthly) != len(want) {
		t.Fatalf("monthly = %+v", d.Monthly)
	}
	for i := range want {
		if d.Monthly[i] != want[i] {
			t.Fatalf("monthly[%d] = %+v, want %+v", i, d.Monthly[i], want[i])
		}
	}
}

func TestDashboard_AllAndPastYear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.uc.Dashboard(ctx, owner, finance.FilterAll)
	if err != nil {
		t.Fatalf("Dashboard(all): %v", err)
	}
	if all.TotalSales != 11499 || len(all.Monthly) != 12 || all.Monthly[0].Month != "Jul 2023" || all.Monthly[11].Month != "Jun 2024" {
		t.Fatalf("all dashboard = %+v", all)
	}

	past, err := f.uc.Dashboard(ctx, owner, "2023-24")
	if err != nil {
		t.Fatalf("Dashboard(2023-24): %v", err)
	}
	if past.TotalSales != 9999 || len(past.Monthly) != 12 || past.AssetsValue != 49000 {
		t.Fatalf("past dashboard = %+v", past)
	}

	if _, err := f.uc.Dashboard(ctx, owner, "2023/24"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("bad label error = %v, want validation", err)
	}
}

func TestDashboard_ServedFromCacheUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.uc.Dashboard(ctx, owner, ""); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	late := &model.Sale{BaseModel: model.BaseModel{ID: "late"}, OwnerID: owner, Date: day(2024, 6, 2), Amount: 700}
	if err := f.sales.Create(ctx, late); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	cached, err := f.uc.Dashboard(ctx, owner, "")
	if err != nil || cached.TotalSales != 1500 {
		t.Fatalf("cached dashboard = %+v, %v", cached, err)
	}

	_ = f.cache.DeletePattern(ctx, "")
	fresh, err := f.uc.Dashboard(ctx, owner, "")
	if err != nil || fresh.TotalSales != 2200 {
		t.Fatalf("fresh dashboard = %+v, %v", fresh, err)
	}
}

func TestProfitAndLossAndBalanceSheet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pl, err := f.uc.ProfitAndLoss(ctx, owner, "2024-25")
	if err != nil {
		t.Fatalf("ProfitAndLoss: %v", err)
	}
	want := dto.ProfitAndLoss{
		FinancialYear:  "2024-25",
		From:           day(2024, 4, 1),
		To:             day(2025, 3, 31),
		TotalSales:     1705,
		TotalPurchases: 840,
		GrossProfit:    865,
		TotalExpenses:  100,
		NetProfit:      765,
	}
	if !pl.From.Equal(want.From) || !pl.To.Equal(want.To) {
		t.Fatalf("range = %v..%v", pl.From, pl.To)
	}
	pl.From, pl.To = want.From, want.To
	if *pl != want {
		t.Fatalf("p&l = %+v, want %+v", *pl, want)
	}

	bs, err := f.uc.BalanceSheet(ctx, owner, "2024-25")
	if err != nil {
		t.Fatalf("BalanceSheet: %v", err)
	}
	if bs.Capital != 765 || bs.AssetsCost != 60000 || bs.Depreciation != 14000 || bs.AssetsValue != 46000 {
		t.Fatalf("balance sheet = %+v", bs)
	}

	closed, err := f.uc.BalanceSheet(ctx, owner, "2023-24")
	if err != nil {
		t.Fatalf("BalanceSheet(2023-24): %v", err)
	}
	if !closed.AsOf.Equal(day(2024, 3, 31)) || closed.Depreciation != 11000 {
		t.Fatalf("closed year balance sheet = %+v", closed)
	}
}

func TestExportProfitAndLoss(t *testing.T) {
	f := newFixture(t)

	data, name, err := f.uc.ExportProfitAndLoss(context.Background(), owner, "2024-25")
	if err != nil {
		t.Fatalf("ExportProfitAndLoss: %v", err)
	}
	if name != "profit-loss-2024-25.xlsx" {
		t.Fatalf("file name = %q", name)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer wb.Close()

	if sheets := wb.GetSheetList(); len(sheets) != 2 || sheets[0] != sheetProfitLoss || sheets[1] != sheetBalanceSheet {
		t.Fatalf("sheets = %v", sheets)
	}
	cells := []struct {
		sheet, cell, want string
	}{
		{sheetProfitLoss, "A2", "Financial Year: 2024-25"},
		{sheetProfitLoss, "A13", "Net Profit"},
		{sheetProfitLoss, "B13", "765"},
		{sheetBalanceSheet, "A11", "Capital"},
		{sheetBalanceSheet, "B11", "765"},
	}
	for _, c := range cells {
		got, err := wb.GetCellValue(c.sheet, c.cell)
		if err != nil || got != c.want {
			t.Fatalf("%s!%s = %q, %v; want %q", c.sheet, c.cell, got, err, c.want)
		}
	}
}
