package finance

type SaleInput struct {
	Quantity       float64
	UnitPrice      float64
	GSTPercentage  float64
	GSTInclusive   bool
	CostPrice      float64
	AmountReceived float64
	SellingExpense float64
}

type SaleFigures struct {
	Base               float64 `json:"amount"`
	GST                float64 `json:"gst_amount"`
	Total              float64 `json:"total_amount"`
	AmountReceived     float64 `json:"amount_received"`
	PlatformCommission float64 `json:"platform_commission"`
	Profit             float64 `json:"profit_amount"`
}

// SaleProfit computes the derived fields of a sale.
//
// Marketplaces remit less than the listed total. When the seller records the
// amount actually received on a GST-inclusive sale, base and GST are taken
// from that figure instead of the nominal total.
func SaleProfit(in SaleInput) SaleFigures {
	split := SplitGST(in.Quantity, in.UnitPrice, in.GSTPercentage, in.GSTInclusive)
	cost := in.CostPrice * in.Quantity

	if in.AmountReceived > 0 && in.GSTInclusive {
		receivedBase := ExtractBase(in.AmountReceived, in.GSTPercentage)
		return SaleFigures{
			Base:               receivedBase,
			GST:                in.AmountReceived - receivedBase,
			Total:              split.Total,
			AmountReceived:     in.AmountReceived,
			PlatformCommission: split.Total - in.AmountReceived,
			Profit:             receivedBase - cost - in.SellingExpense,
		}
	}

	received := in.AmountReceived
	if received == 0 {
		received = split.Total
	}
	return SaleFigures{
		Base:               split.Base,
		GST:                split.GST,
		Total:              split.Total,
		AmountReceived:     received,
		PlatformCommission: split.Total - received,
		Profit:             received - cost - in.SellingExpense,
	}
}

func (f SaleFigures) Rounded() SaleFigures {
	return SaleFigures{
		Base:               Round2(f.Base),
		GST:                Round2(f.GST),
		Total:              Round2(f.Total),
		AmountReceived:     Round2(f.AmountReceived),
		PlatformCommission: Round2(f.PlatformCommission),
		Profit:             Round2(f.Profit),
	}
}
