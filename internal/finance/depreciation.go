package finance

import "time"

type DepreciationMethod string

const (
	StraightLine     DepreciationMethod = "Straight Line"
	WrittenDownValue DepreciationMethod = "Written Down Value"
)

func (m DepreciationMethod) Valid() bool {
	return m == StraightLine || m == WrittenDownValue
}

type AssetInput struct {
	PurchasePrice   float64
	PurchaseDate    time.Time
	Method          DepreciationMethod
	AnnualRate      float64 // percent, Written Down Value only
	UsefulLifeYears float64 // Straight Line only
}

type Depreciation struct {
	MonthsElapsed int     `json:"months_elapsed"`
	Accumulated   float64 `json:"accumulated_depreciation"`
	CurrentValue  float64 `json:"current_value"`
}

// Depreciate values the asset at asOf. Only whole calendar months count, and
// an asset dated in the future has not depreciated yet.
func Depreciate(in AssetInput, asOf time.Time) Depreciation {
	months := MonthsBetween(in.PurchaseDate, asOf)
	if months < 0 {
		months = 0
	}
	return DepreciateMonths(in, months)
}

func DepreciateMonths(in AssetInput, months int) Depreciation {
	var accumulated float64

	switch in.Method {
	case StraightLine:
		if in.UsefulLifeYears > 0 {
			monthly := in.PurchasePrice / in.UsefulLifeYears / 12
			accumulated = monthly * float64(months)
			if accumulated > in.PurchasePrice {
				accumulated = in.PurchasePrice
			}
		}
	case WrittenDownValue:
		value := in.PurchasePrice
		monthlyRate := in.AnnualRate / 12 / 100
		for i := 0; i < months && value > 0; i++ {
			value -= value * monthlyRate
		}
		if value < 0 {
			value = 0
		}
		accumulated = in.PurchasePrice - value
	}

	current := in.PurchasePrice - accumulated
	if current < 0 {
		current = 0
	}
	return Depreciation{MonthsElapsed: months, Accumulated: accumulated, CurrentValue: current}
}

func (d Depreciation) Rounded() Depreciation {
	return Depreciation{MonthsElapsed: d.MonthsElapsed, Accumulated: Round2(d.Accumulated), CurrentValue: Round2(d.CurrentValue)}
}

// AssetGST returns the GST on an asset purchase and the resulting total cost.
func AssetGST(purchasePrice, gstPercentage float64) (gst, totalCost float64) {
	gst = purchasePrice * gstPercentage / 100
	return gst, purchasePrice + gst
}

// MonthsBetween counts full calendar months from 'from' to 'to', ignoring the
// clock. A month is complete once the day of month is reached again, or when
// 'to' is the last day of a shorter month.
func MonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return -MonthsBetween(to, from)
	}

	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	months := (y2-y1)*12 + int(m2-m1)

	if months > 0 && d2 < d1 && !isLastDayOfMonth(to) {
		months--
	}
	return months
}

func isLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}
