// Package finance holds the pure bookkeeping calculators: GST splits, sale
// profit, sales-return results, asset depreciation and financial-year math.
// Nothing here touches storage; intermediate math runs on float64 and values
// are rounded to two places only when a record is persisted.
package finance

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Sum adds amounts without accumulating float error across long lists.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}
