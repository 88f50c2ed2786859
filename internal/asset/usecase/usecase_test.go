package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/store/memory"
)

const owner = "owner-1"

func newTestUseCase(now time.Time) *assetUseCase {
	uc := NewAssetUseCase(memory.NewAssetRepository(memory.NewStore()), cache.NopStore(), logger.NewNop()).(*assetUseCase)
	uc.now = func() time.Time { return now }
	return uc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func laptop() *dto.AssetInput {
	return &dto.AssetInput{
		OwnerID:         owner,
		AssetName:       "Laptop",
		PurchaseDate:    day(2023, 4, 1),
		PurchasePrice:   60000,
		GSTPercentage:   18,
		UsefulLifeYears: 5,
	}
}

func TestCreateAsset_DefaultsAndValue(t *testing.T) {
	uc := newTestUseCase(day(2025, 4, 1))

	a, err := uc.CreateAsset(context.Background(), laptop())
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if a.Category != "Computer" || a.DepreciationMethod != string(finance.StraightLine) || a.DepreciationRate != 10 {
		t.Fatalf("defaults = %q %q %v", a.Category, a.DepreciationMethod, a.DepreciationRate)
	}
	if a.GSTAmount != 10800 || a.TotalCost != 70800 {
		t.Fatalf("gst = %v total = %v, want 10800 and 70800", a.GSTAmount, a.TotalCost)
	}
	if a.MonthsElapsed != 24 || a.AccumulatedDepreciation != 24000 || a.CurrentValue != 36000 {
		t.Fatalf("valuation = %d/%v/%v, want 24/24000/36000", a.MonthsElapsed, a.AccumulatedDepreciation, a.CurrentValue)
	}
}

func TestCreateAsset_Validation(t *testing.T) {
	uc := newTestUseCase(day(2025, 4, 1))
	tests := []struct {
		name   string
		mutate func(in *dto.AssetInput)
	}{
		{"no name", func(in *dto.AssetInput) { in.AssetName = "" }},
		{"no date", func(in *dto.AssetInput) { in.PurchaseDate = time.Time{} }},
		{"negative price", func(in *dto.AssetInput) { in.PurchasePrice = -5 }},
		{"unknown method", func(in *dto.AssetInput) { in.DepreciationMethod = "Double Declining" }},
		{"rate above 100", func(in *dto.AssetInput) { in.DepreciationRate = 120 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := laptop()
			tc.mutate(in)
			if _, err := uc.CreateAsset(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("error = %v, want validation", err)
			}
		})
	}
}

func TestListAssets_SummaryCoversAllPages(t *testing.T) {
	uc := newTestUseCase(day(2025, 4, 1))
	ctx := context.Background()

	wdv := laptop()
	wdv.AssetName = "Sewing Machine"
	wdv.Category = "Machinery"
	wdv.DepreciationMethod = string(finance.WrittenDownValue)
	wdv.DepreciationRate = 15
	future := laptop()
	future.AssetName = "Printer"
	future.PurchaseDate = day(2025, 6, 1)

	for _, in := range []*dto.AssetInput{laptop(), wdv, future} {
		if _, err := uc.CreateAsset(ctx, in); err != nil {
			t.Fatalf("CreateAsset: %v", err)
		}
	}

	items, count, summary, err := uc.ListAssets(ctx, &dto.AssetFilters{OwnerID: owner, Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if count != 3 || len(items) != 1 || items[0].AssetName != "Printer" {
		t.Fatalf("page = %+v (count %d)", items, count)
	}
	// The printer is dated after today and stays out of the totals.
	if summary.Count != 2 || summary.TotalPurchaseValue != 120000 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.TotalAccumulated <= 24000 || summary.TotalCurrentValue >= 96000 {
		t.Fatalf("summary = %+v, want the machine depreciation included", summary)
	}

	_, count, _, _ = uc.ListAssets(ctx, &dto.AssetFilters{OwnerID: owner, Category: "Machinery"})
	if count != 1 {
		t.Fatalf("category filter count = %d, want 1", count)
	}
}

func TestValuation_AsOf(t *testing.T) {
	uc := newTestUseCase(day(2030, 1, 1))
	ctx := context.Background()
	if _, err := uc.CreateAsset(ctx, laptop()); err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	tests := []struct {
		asOf    time.Time
		count   int
		current float64
	}{
		{day(2023, 3, 31), 0, 0},
		{day(2024, 4, 1), 1, 48000},
		{day(2029, 4, 1), 1, 0},
	}
	for _, tc := range tests {
		got, err := uc.Valuation(ctx, owner, tc.asOf)
		if err != nil {
			t.Fatalf("Valuation: %v", err)
		}
		if got.Count != tc.count || got.TotalCurrentValue != tc.current {
			t.Fatalf("Valuation(%s) = %+v, want count %d value %v", tc.asOf.Format("2006-01-02"), got, tc.count, tc.current)
		}
	}
}

func TestUpdateAndDeleteAsset(t *testing.T) {
	uc := newTestUseCase(day(2025, 4, 1))
	ctx := context.Background()

	a, err := uc.CreateAsset(ctx, laptop())
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	in := laptop()
	in.PurchasePrice = 30000
	updated, err := uc.UpdateAsset(ctx, a.ID, in)
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if updated.CurrentValue != 18000 || updated.TotalCost != 35400 {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := uc.UpdateAsset(ctx, "missing", in); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("update missing error = %v", err)
	}
	if err := uc.DeleteAsset(ctx, owner, a.ID); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if _, err := uc.GetAsset(ctx, owner, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("get after delete error = %v", err)
	}
}
