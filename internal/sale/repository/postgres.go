package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/fekuna/accountbook-service/internal/sale/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (
            id, owner_id, date, invoice_number, order_id, customer_name, platform,
            product_name, quantity, unit_price, gst_percentage, gst_inclusive,
            amount, gst_amount, total_amount, cost_price, amount_received,
            platform_commission, selling_expense_amount, selling_expense_category,
            selling_expense_notes, profit_amount, payment_method, notes,
            is_returned, return_id, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :date, :invoice_number, :order_id, :customer_name, :platform,
            :product_name, :quantity, :unit_price, :gst_percentage, :gst_inclusive,
            :amount, :gst_amount, :total_amount, :cost_price, :amount_received,
            :platform_commission, :selling_expense_amount, :selling_expense_category,
            :selling_expense_notes, :profit_amount, :payment_method, :notes,
            :is_returned, :return_id, :created_at, :updated_at
        )
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	return mapErr(err)
}

func mapErr(err error) error {
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("a sale with this order id already exists")
	}
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Sale, error) {
	var s model.Sale
	query := `SELECT * FROM sales WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &s, query, ownerID, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindByOrderID(ctx context.Context, ownerID, orderID, excludeID string) (*model.Sale, error) {
	var s model.Sale
	query := `SELECT * FROM sales WHERE owner_id = $1 AND order_id = $2`
	args := []interface{}{ownerID, orderID}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}
	query += ` ORDER BY created_at LIMIT 1`

	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &s, query, args...)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func whereClause(f *dto.SaleFilters) (string, map[string]interface{}) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Platform != "" {
		conditions = append(conditions, "platform = :platform")
		args["platform"] = f.Platform
	}
	if f.Returned != nil {
		conditions = append(conditions, "is_returned = :is_returned")
		args["is_returned"] = *f.Returned
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(customer_name ILIKE :search OR invoice_number ILIKE :search OR order_id ILIKE :search OR product_name ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.StartDate != nil {
		conditions = append(conditions, "date >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "date <= :end_date")
		args["end_date"] = *f.EndDate
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	var items []model.Sale
	var count int

	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(f)

	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM sales"+where, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM sales" + where + " ORDER BY date DESC, created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	query, queryArgs, err := db.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	err = db.SelectContext(ctx, &items, query, queryArgs...)
	return items, count, err
}

func (r *PGRepository) Summarize(ctx context.Context, f *dto.SaleFilters) (*dto.SaleSummary, error) {
	var s dto.SaleSummary
	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(f)

	query, queryArgs, err := db.BindNamed(`
        SELECT count(*) AS count,
               COALESCE(SUM(total_amount), 0) AS total_sales,
               COALESCE(SUM(amount), 0) AS total_amount,
               COALESCE(SUM(gst_amount), 0) AS total_gst,
               COALESCE(SUM(cost_price * quantity), 0) AS total_cost,
               COALESCE(SUM(amount_received), 0) AS total_received,
               COALESCE(SUM(platform_commission), 0) AS total_commission,
               COALESCE(SUM(selling_expense_amount), 0) AS total_selling_expenses,
               COALESCE(SUM(profit_amount), 0) AS total_profit
        FROM sales`+where, args)
	if err != nil {
		return nil, err
	}
	if err := db.GetContext(ctx, &s, query, queryArgs...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Update(ctx context.Context, s *model.Sale) error {
	query := `
        UPDATE sales
        SET date = :date,
            invoice_number = :invoice_number,
            order_id = :order_id,
            customer_name = :customer_name,
            platform = :platform,
            product_name = :product_name,
            quantity = :quantity,
            unit_price = :unit_price,
            gst_percentage = :gst_percentage,
            gst_inclusive = :gst_inclusive,
            amount = :amount,
            gst_amount = :gst_amount,
            total_amount = :total_amount,
            cost_price = :cost_price,
            amount_received = :amount_received,
            platform_commission = :platform_commission,
            selling_expense_amount = :selling_expense_amount,
            selling_expense_category = :selling_expense_category,
            selling_expense_notes = :selling_expense_notes,
            profit_amount = :profit_amount,
            payment_method = :payment_method,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, s)
	return mapErr(err)
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM sales WHERE owner_id = $1 AND id = $2", ownerID, id)
	return err
}

func (r *PGRepository) SetReturn(ctx context.Context, ownerID, saleID string, returnID *string) error {
	query := `UPDATE sales SET is_returned = $1, return_id = $2, updated_at = now() WHERE owner_id = $3 AND id = $4`
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, query, returnID != nil, returnID, ownerID, saleID)
	return err
}
