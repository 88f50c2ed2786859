package finance

// GSTSplit is a price broken into taxable base, GST component and gross total.
type GSTSplit struct {
	Base  float64 `json:"base"`
	GST   float64 `json:"gst"`
	Total float64 `json:"total"`
}

// SplitGST derives base/GST/total from a line. In inclusive mode quantity×price
// is the gross total and the base is extracted from it; otherwise it is the base.
func SplitGST(quantity, unitPrice, gstPercentage float64, inclusive bool) GSTSplit {
	rate := gstPercentage / 100
	if inclusive {
		total := quantity * unitPrice
		base := total / (1 + rate)
		return GSTSplit{Base: base, GST: total - base, Total: total}
	}
	base := quantity * unitPrice
	gst := base * rate
	return GSTSplit{Base: base, GST: gst, Total: base + gst}
}

// ExtractBase is the inverse of the exclusive split: the base contained in a gross amount.
func ExtractBase(total, gstPercentage float64) float64 {
	return total / (1 + gstPercentage/100)
}

func (s GSTSplit) Rounded() GSTSplit {
	return GSTSplit{Base: Round2(s.Base), GST: Round2(s.GST), Total: Round2(s.Total)}
}
