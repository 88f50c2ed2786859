package finance

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		from, to time.Time
		want     int
	}{
		{date(2023, 1, 15), date(2025, 1, 15), 24},
		{date(2023, 1, 15), date(2025, 1, 14), 23},
		{date(2025, 1, 15), date(2025, 2, 14), 0},
		{date(2025, 1, 31), date(2025, 2, 28), 1},
		{date(2025, 3, 31), date(2025, 4, 30), 1},
		{date(2024, 2, 29), date(2025, 2, 28), 12},
		{date(2025, 6, 1), date(2025, 6, 30), 0},
		{date(2025, 6, 1), date(2025, 3, 1), -3},
	}
	for _, tc := range cases {
		if got := MonthsBetween(tc.from, tc.to); got != tc.want {
			t.Fatalf("MonthsBetween(%s, %s) = %d, want %d", tc.from.Format("2006-01-02"), tc.to.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestDepreciateStraightLine(t *testing.T) {
	in := AssetInput{PurchasePrice: 60000, PurchaseDate: date(2023, 1, 15), Method: StraightLine, UsefulLifeYears: 5}

	got := Depreciate(in, date(2025, 1, 15)).Rounded()
	want := Depreciation{MonthsElapsed: 24, Accumulated: 24000, CurrentValue: 36000}
	if got != want {
		t.Fatalf("Depreciate() = %+v, want %+v", got, want)
	}

	got = Depreciate(in, date(2035, 1, 15)).Rounded()
	if got.Accumulated != 60000 || got.CurrentValue != 0 {
		t.Fatalf("past useful life: got %+v, want fully depreciated", got)
	}
}

func TestDepreciateFuturePurchase(t *testing.T) {
	in := AssetInput{PurchasePrice: 5000, PurchaseDate: date(2026, 6, 1), Method: StraightLine, UsefulLifeYears: 3}
	got := Depreciate(in, date(2026, 1, 1))
	if got.MonthsElapsed != 0 || got.Accumulated != 0 || got.CurrentValue != 5000 {
		t.Fatalf("future purchase: got %+v", got)
	}
}

func TestDepreciateWrittenDownValueMatchesClosedForm(t *testing.T) {
	in := AssetInput{PurchasePrice: 100000, Method: WrittenDownValue, AnnualRate: 12}
	for _, months := range []int{0, 1, 12, 37, 120} {
		got := DepreciateMonths(in, months)
		want := 100000 * math.Pow(1-0.01, float64(months))
		if math.Abs(got.CurrentValue-want) > 1e-6 {
			t.Fatalf("months=%d: current value %v, want %v", months, got.CurrentValue, want)
		}
		if math.Abs(got.Accumulated+got.CurrentValue-100000) > 1e-6 {
			t.Fatalf("months=%d: accumulated + current != price", months)
		}
	}
}

func TestDepreciateMonotonic(t *testing.T) {
	inputs := []AssetInput{
		{PurchasePrice: 60000, Method: StraightLine, UsefulLifeYears: 5},
		{PurchasePrice: 60000, Method: WrittenDownValue, AnnualRate: 40},
		{PurchasePrice: 1000, Method: WrittenDownValue, AnnualRate: 1500},
	}
	for _, in := range inputs {
		prev := DepreciateMonths(in, 0)
		for m := 1; m <= 120; m++ {
			cur := DepreciateMonths(in, m)
			if cur.Accumulated < prev.Accumulated {
				t.Fatalf("%s: accumulated decreased at month %d", in.Method, m)
			}
			if cur.CurrentValue < 0 {
				t.Fatalf("%s: negative current value at month %d", in.Method, m)
			}
			prev = cur
		}
	}
}

func TestDepreciateUnknownMethod(t *testing.T) {
	got := DepreciateMonths(AssetInput{PurchasePrice: 800, Method: "Sum of Years"}, 24)
	if got.Accumulated != 0 || got.CurrentValue != 800 {
		t.Fatalf("unknown method: got %+v", got)
	}
}

func TestAssetGST(t *testing.T) {
	gst, total := AssetGST(50000, 18)
	if gst != 9000 || total != 59000 {
		t.Fatalf("AssetGST() = %v, %v", gst, total)
	}
}
