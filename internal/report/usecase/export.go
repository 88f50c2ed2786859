package usecase

import (
	"fmt"
	"time"

	"github.com/fekuna/accountbook-service/internal/report/dto"
	"github.com/xuri/excelize/v2"
)

const (
	sheetProfitLoss   = "Profit and Loss"
	sheetBalanceSheet = "Balance Sheet"
)

func renderWorkbook(pl *dto.ProfitAndLoss, bs *dto.BalanceSheet, generated time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", sheetProfitLoss); err != nil {
		return nil, err
	}
	err = writeSheet(f, sheetProfitLoss, "Profit & Loss Statement", pl.FinancialYear, generated, bold, [][]interface{}{
		{"Revenue", nil},
		{"Total Sales", pl.TotalSales},
		{"Cost of Goods Sold", nil},
		{"Total Purchases", pl.TotalPurchases},
		{"Gross Profit", pl.GrossProfit},
		{"Operating Expenses", nil},
		{"Total Expenses", pl.TotalExpenses},
		{"Net Profit", pl.NetProfit},
	})
	if err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetBalanceSheet); err != nil {
		return nil, err
	}
	err = writeSheet(f, sheetBalanceSheet, "Balance Sheet", bs.FinancialYear, generated, bold, [][]interface{}{
		{"ASSETS", nil},
		{"Fixed Assets at Cost", bs.AssetsCost},
		{"Less Accumulated Depreciation", bs.Depreciation},
		{"Current Assets", bs.AssetsValue},
		{"LIABILITIES", nil},
		{"Capital", bs.Capital},
	})
	if err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSheet lays out a title block followed by a Particulars/Amount table.
// Rows without an amount are section headings.
func writeSheet(f *excelize.File, sheet, title, fy string, generated time.Time, bold int, rows [][]interface{}) error {
	cells := map[string]interface{}{
		"A1": title,
		"A2": "Financial Year: " + fy,
		"A3": "Generated: " + generated.Format("02 Jan 2006"),
		"A5": "Particulars",
		"B5": "Amount",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A5", "B5", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}

	for i, row := range rows {
		n := i + 6
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", n), row[0]); err != nil {
			return err
		}
		if row[1] == nil {
			if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", n), fmt.Sprintf("A%d", n), bold); err != nil {
				return err
			}
			continue
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", n), row[1]); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "A", 34)
}
