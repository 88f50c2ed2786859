package usecase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fekuna/accountbook-service/internal/importer/dto"
	"github.com/xuri/excelize/v2"
)

// table is a decoded upload: normalised header names and the non-blank rows.
// lines holds each row's spreadsheet row number, the header being row 1.
type table struct {
	header []string
	rows   []dto.Row
	lines  []int
}

func readTable(filename string, r io.Reader) (*table, error) {
	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readXLSX(r)
	default:
		records, err = readCSV(r)
	}
	if err != nil {
		return nil, err
	}
	return newTable(records), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// readXLSX reads the first sheet with raw cell values, so dates arrive as
// Excel serial numbers whatever their display format.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func newTable(records [][]string) *table {
	t := &table{}
	if len(records) == 0 {
		return t
	}

	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		t.header = append(t.header, strings.ToLower(h))
	}

	for j, rec := range records[1:] {
		row := make(dto.Row, len(t.header))
		blank := true
		for i, name := range t.header {
			if name == "" || i >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[i])
			row[name] = v
			if v != "" {
				blank = false
			}
		}
		if !blank {
			t.rows = append(t.rows, row)
			t.lines = append(t.lines, j+2)
		}
	}
	return t
}

// missing lists required columns absent from the header, in required order.
func (t *table) missing(required []string) []string {
	have := make(map[string]bool, len(t.header))
	for _, h := range t.header {
		have[h] = true
	}
	var out []string
	for _, col := range required {
		if !have[col] {
			out = append(out, col)
		}
	}
	return out
}
