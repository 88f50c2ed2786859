package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/fekuna/accountbook-service/internal/salesreturn/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func mapErr(err error) error {
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("a return for this order id already exists")
	}
	return err
}

func (r *PGRepository) Create(ctx context.Context, ret *model.SalesReturn) error {
	query := `
        INSERT INTO sales_returns (
            id, owner_id, date, sale_id, order_id, invoice_number, customer_name,
            platform, product_name, quantity, unit_price, gst_percentage, amount,
            gst_amount, total_amount, return_shipping_fee, refund_amount,
            claim_amount, claim_status, net_loss, reason, notes, restocked,
            created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :date, :sale_id, :order_id, :invoice_number, :customer_name,
            :platform, :product_name, :quantity, :unit_price, :gst_percentage, :amount,
            :gst_amount, :total_amount, :return_shipping_fee, :refund_amount,
            :claim_amount, :claim_status, :net_loss, :reason, :notes, :restocked,
            :created_at, :updated_at
        )
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, ret)
	return mapErr(err)
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.SalesReturn, error) {
	var ret model.SalesReturn
	query := `SELECT * FROM sales_returns WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &ret, query, ownerID, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

func (r *PGRepository) FindByOrderID(ctx context.Context, ownerID, orderID, excludeID string) (*model.SalesReturn, error) {
	var ret model.SalesReturn
	query := `SELECT * FROM sales_returns WHERE owner_id = $1 AND order_id = $2`
	args := []interface{}{ownerID, orderID}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &ret, query, args...)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ret, nil
}

func whereClause(f *dto.ReturnFilters) (string, map[string]interface{}) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.ClaimStatus != "" {
		conditions = append(conditions, "claim_status = :claim_status")
		args["claim_status"] = f.ClaimStatus
	}
	if f.Platform != "" {
		conditions = append(conditions, "platform = :platform")
		args["platform"] = f.Platform
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(order_id ILIKE :search OR customer_name ILIKE :search OR product_name ILIKE :search OR invoice_number ILIKE :search)")
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

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ReturnFilters) ([]model.SalesReturn, int, error) {
	var items []model.SalesReturn
	var count int

	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(f)

	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM sales_returns"+where, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM sales_returns" + where + " ORDER BY date DESC, created_at DESC"
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

func (r *PGRepository) Summarize(ctx context.Context, f *dto.ReturnFilters) (*dto.ReturnSummary, error) {
	var s dto.ReturnSummary
	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(f)

	query, queryArgs, err := db.BindNamed(`
        SELECT count(*) AS count,
               COALESCE(SUM(total_amount), 0) AS total_return_amount,
               COALESCE(SUM(refund_amount), 0) AS total_refund,
               COALESCE(SUM(return_shipping_fee), 0) AS total_shipping_fees,
               COALESCE(SUM(claim_amount), 0) AS total_claims,
               COALESCE(SUM(net_loss), 0) AS net_result
        FROM sales_returns`+where, args)
	if err != nil {
		return nil, err
	}
	if err := db.GetContext(ctx, &s, query, queryArgs...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Update(ctx context.Context, ret *model.SalesReturn) error {
	query := `
        UPDATE sales_returns
        SET date = :date,
            sale_id = :sale_id,
            order_id = :order_id,
            invoice_number = :invoice_number,
            customer_name = :customer_name,
            platform = :platform,
            product_name = :product_name,
            quantity = :quantity,
            unit_price = :unit_price,
            gst_percentage = :gst_percentage,
            amount = :amount,
            gst_amount = :gst_amount,
            total_amount = :total_amount,
            return_shipping_fee = :return_shipping_fee,
            refund_amount = :refund_amount,
            claim_amount = :claim_amount,
            claim_status = :claim_status,
            net_loss = :net_loss,
            reason = :reason,
            notes = :notes,
            restocked = :restocked,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, ret)
	return mapErr(err)
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM sales_returns WHERE owner_id = $1 AND id = $2", ownerID, id)
	return err
}
