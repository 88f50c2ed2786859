package finance

import "testing"

func TestSplitGST(t *testing.T) {
	tests := []struct {
		name      string
		qty       float64
		price     float64
		rate      float64
		inclusive bool
		want      GSTSplit
	}{
		{"exclusive", 2, 500, 18, false, GSTSplit{Base: 1000, GST: 180, Total: 1180}},
		{"inclusive", 1, 1180, 18, true, GSTSplit{Base: 1000, GST: 180, Total: 1180}},
		{"zero rate", 3, 99.99, 0, false, GSTSplit{Base: 299.97, GST: 0, Total: 299.97}},
		{"inclusive 5 percent", 2, 525, 5, true, GSTSplit{Base: 1000, GST: 50, Total: 1050}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitGST(tc.qty, tc.price, tc.rate, tc.inclusive).Rounded()
			if got != tc.want {
				t.Fatalf("SplitGST() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.005, 1.01},
		{2.675, 2.68},
		{-1.005, -1.01},
		{1000.0000000000001, 1000},
		{0.125, 0.13},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSum(t *testing.T) {
	if got := Sum(0.1, 0.2, 0.3); got != 0.6 {
		t.Fatalf("Sum() = %v, want 0.6", got)
	}
	if got := Sum(); got != 0 {
		t.Fatalf("Sum() of nothing = %v, want 0", got)
	}
}

func TestSaleProfit(t *testing.T) {
	tests := []struct {
		name string
		in   SaleInput
		want SaleFigures
	}{
		{
			name: "exclusive without received amount",
			in:   SaleInput{Quantity: 2, UnitPrice: 500, GSTPercentage: 18, CostPrice: 300, SellingExpense: 50},
			want: SaleFigures{Base: 1000, GST: 180, Total: 1180, AmountReceived: 1180, PlatformCommission: 0, Profit: 530},
		},
		{
			name: "inclusive with received amount rederives base",
			in:   SaleInput{Quantity: 1, UnitPrice: 1180, GSTPercentage: 18, GSTInclusive: true, CostPrice: 500, AmountReceived: 1062},
			want: SaleFigures{Base: 900, GST: 162, Total: 1180, AmountReceived: 1062, PlatformCommission: 118, Profit: 400},
		},
		{
			name: "exclusive with received amount keeps nominal split",
			in:   SaleInput{Quantity: 1, UnitPrice: 1000, GSTPercentage: 18, CostPrice: 600, AmountReceived: 1000},
			want: SaleFigures{Base: 1000, GST: 180, Total: 1180, AmountReceived: 1000, PlatformCommission: 180, Profit: 400},
		},
		{
			name: "inclusive without received amount",
			in:   SaleInput{Quantity: 1, UnitPrice: 1180, GSTPercentage: 18, GSTInclusive: true, CostPrice: 800},
			want: SaleFigures{Base: 1000, GST: 180, Total: 1180, AmountReceived: 1180, PlatformCommission: 0, Profit: 380},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SaleProfit(tc.in).Rounded()
			if got != tc.want {
				t.Fatalf("SaleProfit() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestReturnResult(t *testing.T) {
	tests := []struct {
		name     string
		shipping float64
		claim    float64
		want     ReturnFigures
	}{
		{"no claim", 100, 0, ReturnFigures{Base: 1000, GST: 180, Total: 1180, NetRefund: 1080, NetResult: -100}},
		{"claim covers shipping", 100, 250, ReturnFigures{Base: 1000, GST: 180, Total: 1180, NetRefund: 1080, NetResult: 150}},
		{"free return", 0, 0, ReturnFigures{Base: 1000, GST: 180, Total: 1180, NetRefund: 1180, NetResult: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ReturnResult(1, 1000, 18, tc.shipping, tc.claim).Rounded()
			if got != tc.want {
				t.Fatalf("ReturnResult() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
