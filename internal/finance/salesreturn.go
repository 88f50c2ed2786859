package finance

type ReturnFigures struct {
	Base      float64 `json:"amount"`
	GST       float64 `json:"gst_amount"`
	Total     float64 `json:"total_amount"`
	NetRefund float64 `json:"refund_amount"`
	// NetResult is positive when the claim exceeded the return shipping fee.
	NetResult float64 `json:"net_loss"`
}

func ReturnResult(quantity, unitPrice, gstPercentage, shippingFee, claimAmount float64) ReturnFigures {
	split := SplitGST(quantity, unitPrice, gstPercentage, false)

	net := -shippingFee
	if claimAmount > 0 {
		net = claimAmount - shippingFee
	}

	return ReturnFigures{
		Base:      split.Base,
		GST:       split.GST,
		Total:     split.Total,
		NetRefund: split.Total - shippingFee,
		NetResult: net,
	}
}

func (f ReturnFigures) Rounded() ReturnFigures {
	return ReturnFigures{
		Base:      Round2(f.Base),
		GST:       Round2(f.GST),
		Total:     Round2(f.Total),
		NetRefund: Round2(f.NetRefund),
		NetResult: Round2(f.NetResult),
	}
}
