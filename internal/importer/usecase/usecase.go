package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fekuna/accountbook-service/internal/asset"
	assetdto "github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/importer"
	"github.com/fekuna/accountbook-service/internal/importer/dto"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/purchase"
	purchasedto "github.com/fekuna/accountbook-service/internal/purchase/dto"
	"github.com/fekuna/accountbook-service/internal/sale"
	saledto "github.com/fekuna/accountbook-service/internal/sale/dto"
	"go.uber.org/zap"
)

const previewSize = 5

// layout describes one importable entity: the columns a file must have, the
// template offered for download and how a row is replayed.
type layout struct {
	required []string
	template []string
	sample   []string
	apply    func(ctx context.Context, ownerID string, row dto.Row) ([]string, error)
}

type importUseCase struct {
	purchases purchase.UseCase
	sales     sale.UseCase
	assets    asset.UseCase
	maxRows   int
	logger    logger.ZapLogger
	layouts   map[dto.Entity]layout
}

func NewImportUseCase(purchases purchase.UseCase, sales sale.UseCase, assets asset.UseCase, maxRows int, log logger.ZapLogger) importer.UseCase {
	uc := &importUseCase{
		purchases: purchases,
		sales:     sales,
		assets:    assets,
		maxRows:   maxRows,
		logger:    log,
	}
	uc.layouts = map[dto.Entity]layout{
		dto.EntityPurchases: {
			required: []string{"date", "supplier_name", "category", "item_name", "quantity", "unit_price", "gst_percentage"},
			template: []string{"date", "invoice_number", "supplier_name", "category", "item_name", "quantity", "unit_price", "gst_percentage", "payment_method", "notes"},
			sample:   []string{"28-01-2023", "PUR-001", "Sample Supplier", "Gowns", "Sample Product", "10", "250", "5", "Bank Transfer", "Sample notes (date format dd-mm-yyyy)"},
			apply:    uc.importPurchase,
		},
		dto.EntitySales: {
			required: []string{"date", "platform", "product_name", "quantity", "unit_price", "gst_percentage"},
			template: []string{
				"date", "invoice_number", "order_id", "customer_name", "platform", "product_name", "quantity",
				"unit_price", "gst_percentage", "gst_inclusive", "cost_price", "amount_received",
				"selling_expense_amount", "selling_expense_category", "payment_method", "notes",
			},
			sample: []string{
				"28-01-2023", "INV-001", "ORD-001", "Sample Customer", "Meesho", "Sample Product", "2",
				"500", "18", "FALSE", "300", "1000", "0", "", "Online", "Sample notes (date format dd-mm-yyyy)",
			},
			apply: uc.importSale,
		},
		dto.EntityAssets: {
			required: []string{"asset_name", "purchase_date", "purchase_price"},
			template: []string{"asset_name", "category", "purchase_date", "purchase_price", "gst_percentage", "depreciation_method", "depreciation_rate", "useful_life_years", "notes"},
			sample:   []string{"Laptop", "Computer", "01-04-2023", "60000", "18", "Straight Line", "10", "5", "Sample notes (date format dd-mm-yyyy)"},
			apply:    uc.importAsset,
		},
	}
	return uc
}

func (uc *importUseCase) layoutFor(entity dto.Entity) (layout, error) {
	l, ok := uc.layouts[entity]
	if !ok {
		return layout{}, apperr.Validation("unknown import type %q", entity)
	}
	return l, nil
}

func (uc *importUseCase) Import(ctx context.Context, ownerID string, entity dto.Entity, filename string, r io.Reader) (*dto.Result, error) {
	l, err := uc.layoutFor(entity)
	if err != nil {
		return nil, err
	}

	t, err := readTable(filename, r)
	if err != nil {
		return nil, apperr.Validation("file could not be read: %v", err)
	}
	if len(t.rows) == 0 {
		return nil, apperr.Validation("file is empty or could not be read")
	}
	if missing := t.missing(l.required); len(missing) > 0 {
		return nil, apperr.Validation("file is missing required columns: %s", strings.Join(missing, ", "))
	}
	if uc.maxRows > 0 && len(t.rows) > uc.maxRows {
		return nil, apperr.Validation("file has %d rows, the limit is %d", len(t.rows), uc.maxRows)
	}

	result := &dto.Result{Errors: []dto.RowError{}, Preview: []dto.RowError{}}
	for i, row := range t.rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		n := t.lines[i]
		warnings, err := l.apply(ctx, ownerID, row)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, dto.RowError{Row: n, Message: uc.rowMessage(err, entity, n)})
			continue
		}
		result.SuccessCount++
		for _, w := range warnings {
			result.Warnings = append(result.Warnings, dto.RowError{Row: n, Message: w})
		}
	}

	result.Preview = result.Errors[:min(previewSize, len(result.Errors))]
	uc.logger.Info("import finished",
		zap.String("owner_id", ownerID),
		zap.String("entity", string(entity)),
		zap.Int("imported", result.SuccessCount),
		zap.Int("failed", result.ErrorCount),
	)
	return result, nil
}

// rowMessage keeps user-facing messages and hides store failures.
func (uc *importUseCase) rowMessage(err error, entity dto.Entity, row int) string {
	if apperr.IsUserFacing(err) {
		return err.Error()
	}
	var perr *parseError
	if errors.As(err, &perr) {
		return err.Error()
	}
	uc.logger.Error("failed to import row", zap.String("entity", string(entity)), zap.Int("row", row), zap.Error(err))
	return "row could not be saved"
}

// parseError marks a cell that could not be read; its message is safe to show.
type parseError struct{ err error }

func (e *parseError) Error() string { return e.err.Error() }

func bad(err error) error { return &parseError{err: err} }

func (uc *importUseCase) importPurchase(ctx context.Context, ownerID string, row dto.Row) ([]string, error) {
	date, err := parseDate(row["date"])
	if err != nil {
		return nil, bad(err)
	}
	qty, err := parseQuantity(row["quantity"])
	if err != nil {
		return nil, bad(err)
	}
	price, err := parseAmount("unit_price", row["unit_price"])
	if err != nil {
		return nil, bad(err)
	}
	gst, err := parseGST(row["gst_percentage"])
	if err != nil {
		return nil, bad(err)
	}

	_, err = uc.purchases.CreatePurchase(ctx, &purchasedto.PurchaseInput{
		OwnerID:       ownerID,
		Date:          date,
		InvoiceNumber: row["invoice_number"],
		SupplierName:  row["supplier_name"],
		Category:      row["category"],
		ItemName:      row["item_name"],
		Quantity:      qty,
		UnitPrice:     price,
		GSTPercentage: gst,
		PaymentMethod: row["payment_method"],
		Notes:         row["notes"],
	})
	return nil, err
}

func (uc *importUseCase) importSale(ctx context.Context, ownerID string, row dto.Row) ([]string, error) {
	date, err := parseDate(row["date"])
	if err != nil {
		return nil, bad(err)
	}
	if row["product_name"] == "" {
		return nil, bad(fmt.Errorf("product_name is required"))
	}
	qty, err := parseQuantity(row["quantity"])
	if err != nil {
		return nil, bad(err)
	}
	gst, err := parseGST(row["gst_percentage"])
	if err != nil {
		return nil, bad(err)
	}

	amounts := map[string]float64{}
	for _, field := range []string{"unit_price", "cost_price", "amount_received", "selling_expense_amount"} {
		v, err := parseAmount(field, row[field])
		if err != nil {
			return nil, bad(err)
		}
		amounts[field] = v
	}

	paymentMethod := row["payment_method"]
	if paymentMethod == "" {
		paymentMethod = "Online"
	}

	result, err := uc.sales.CreateSale(ctx, &saledto.SaleInput{
		OwnerID:                ownerID,
		Date:                   date,
		InvoiceNumber:          row["invoice_number"],
		OrderID:                row["order_id"],
		CustomerName:           row["customer_name"],
		Platform:               row["platform"],
		ProductName:            row["product_name"],
		Quantity:               qty,
		UnitPrice:              amounts["unit_price"],
		GSTPercentage:          gst,
		GSTInclusive:           parseBool(row["gst_inclusive"]),
		CostPrice:              amounts["cost_price"],
		AmountReceived:         amounts["amount_received"],
		SellingExpenseAmount:   amounts["selling_expense_amount"],
		SellingExpenseCategory: row["selling_expense_category"],
		SellingExpenseNotes:    row["selling_expense_notes"],
		PaymentMethod:          paymentMethod,
		Notes:                  row["notes"],
	})
	if err != nil {
		return nil, err
	}
	return result.Warnings, nil
}

func (uc *importUseCase) importAsset(ctx context.Context, ownerID string, row dto.Row) ([]string, error) {
	date, err := parseDate(row["purchase_date"])
	if err != nil {
		return nil, bad(err)
	}
	price, err := parseAmount("purchase_price", row["purchase_price"])
	if err != nil {
		return nil, bad(err)
	}
	gst, err := parseGST(row["gst_percentage"])
	if err != nil {
		return nil, bad(err)
	}
	rate, err := parseAmount("depreciation_rate", strings.TrimSuffix(row["depreciation_rate"], "%"))
	if err != nil {
		return nil, bad(err)
	}
	life, err := parseAmount("useful_life_years", row["useful_life_years"])
	if err != nil {
		return nil, bad(err)
	}

	_, err = uc.assets.CreateAsset(ctx, &assetdto.AssetInput{
		OwnerID:            ownerID,
		AssetName:          row["asset_name"],
		Category:           row["category"],
		PurchaseDate:       date,
		PurchasePrice:      price,
		GSTPercentage:      gst,
		DepreciationMethod: row["depreciation_method"],
		DepreciationRate:   rate,
		UsefulLifeYears:    life,
		Notes:              row["notes"],
	})
	return nil, err
}

func (uc *importUseCase) Template(entity dto.Entity) (string, []byte, error) {
	l, err := uc.layoutFor(entity)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{l.template, l.sample}); err != nil {
		return "", nil, err
	}
	return string(entity) + "_template.csv", buf.Bytes(), nil
}
