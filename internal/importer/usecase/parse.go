package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Excel serial numbers inside this window are treated as dates (1954-2064).
const (
	minExcelSerial = 20000
	maxExcelSerial = 60000
)

var dateLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"2006-01-02",
}

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func parseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial > minExcelSerial && serial < maxExcelSerial {
			d := excelEpoch.AddDate(0, 0, int(serial))
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), nil
		}
		return time.Time{}, invalidDate(raw)
	}

	s = strings.NewReplacer(".", "-", "/", "-").Replace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalidDate(raw)
}

func invalidDate(raw string) error {
	return fmt.Errorf("invalid date %q, use dd-mm-yyyy or dd-MMM-yyyy (e.g. 11-03-2023 or 11-Mar-2023)", raw)
}

// parseGST accepts "18", "18%" and fractions such as "0.18".
func parseGST(raw string) (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("gst_percentage must be a number, got %q", raw)
	}
	if v > 0 && v <= 1 {
		v *= 100
	}
	return v, nil
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true
	}
	return false
}

func parseQuantity(raw string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, fmt.Errorf("quantity must be a positive whole number, got %q", raw)
	}
	return int(v), nil
}

// parseAmount reads an optional numeric column; blank means zero.
func parseAmount(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", field, raw)
	}
	return v, nil
}
