package repository

import (
	"context"
	"strings"

	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/fekuna/accountbook-service/internal/report/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func whereClause(scope dto.Scope) (string, map[string]interface{}) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": scope.OwnerID}
	if scope.From != nil {
		conditions = append(conditions, "date >= :start_date")
		args["start_date"] = *scope.From
	}
	if scope.To != nil {
		conditions = append(conditions, "date <= :end_date")
		args["end_date"] = *scope.To
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PGRepository) Totals(ctx context.Context, scope dto.Scope) (*dto.Totals, error) {
	var t dto.Totals
	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(scope)

	query, queryArgs, err := db.BindNamed(`
        SELECT
            (SELECT count(*) FROM sales`+where+`) AS sales_count,
            (SELECT COALESCE(SUM(amount), 0) FROM sales`+where+`) AS sales_amount,
            (SELECT COALESCE(SUM(total_amount), 0) FROM sales`+where+`) AS sales_total,
            (SELECT COALESCE(SUM(profit_amount), 0) FROM sales`+where+`) AS sales_profit,
            (SELECT COALESCE(SUM(amount), 0) FROM purchases`+where+`) AS purchases_amount,
            (SELECT COALESCE(SUM(total_amount), 0) FROM purchases`+where+`) AS purchases_total,
            (SELECT COALESCE(SUM(amount), 0) FROM expenses`+where+`) AS expenses_total,
            (SELECT COALESCE(SUM(total_amount), 0) FROM sales_returns`+where+`) AS returns_total,
            (SELECT COALESCE(SUM(net_loss), 0) FROM sales_returns`+where+`) AS returns_net_loss
    `, args)
	if err != nil {
		return nil, err
	}
	if err := db.GetContext(ctx, &t, query, queryArgs...); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PGRepository) PlatformSales(ctx context.Context, scope dto.Scope) ([]dto.PlatformTotal, error) {
	var items []dto.PlatformTotal
	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(scope)

	query, queryArgs, err := db.BindNamed(`
        SELECT COALESCE(NULLIF(platform, ''), 'Offline') AS platform, SUM(amount) AS amount
        FROM sales`+where+`
        GROUP BY 1
        ORDER BY amount DESC`, args)
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &items, query, queryArgs...)
	return items, err
}

func (r *PGRepository) monthly(ctx context.Context, table string, scope dto.Scope) ([]dto.MonthlyAmount, error) {
	var items []dto.MonthlyAmount
	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(scope)

	query, queryArgs, err := db.BindNamed(`
        SELECT date_trunc('month', date)::date AS month, SUM(amount) AS amount
        FROM `+table+where+`
        GROUP BY 1
        ORDER BY 1`, args)
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &items, query, queryArgs...)
	return items, err
}

func (r *PGRepository) MonthlySales(ctx context.Context, scope dto.Scope) ([]dto.MonthlyAmount, error) {
	return r.monthly(ctx, "sales", scope)
}

func (r *PGRepository) MonthlyPurchases(ctx context.Context, scope dto.Scope) ([]dto.MonthlyAmount, error) {
	return r.monthly(ctx, "purchases", scope)
}
