package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/expense/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, e *model.Expense) error {
	query := `
        INSERT INTO expenses (id, owner_id, date, category, description, amount, payment_method, notes, created_at, updated_at)
        VALUES (:id, :owner_id, :date, :category, :description, :amount, :payment_method, :notes, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, e)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Expense, error) {
	var e model.Expense
	query := `SELECT * FROM expenses WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &e, query, ownerID, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func whereClause(f *dto.ExpenseFilters) (string, map[string]interface{}) {
	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(description ILIKE :search OR notes ILIKE :search)")
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

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ExpenseFilters) ([]model.Expense, int, error) {
	var items []model.Expense
	var count int

	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(f)

	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM expenses"+where, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM expenses" + where + " ORDER BY date DESC, created_at DESC"
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

func (r *PGRepository) Summarize(ctx context.Context, f *dto.ExpenseFilters) (*dto.ExpenseSummary, error) {
	var s dto.ExpenseSummary
	db := postgres.Conn(ctx, r.DB)
	where, args := whereClause(f)

	query, queryArgs, err := db.BindNamed(`
        SELECT count(*) AS count, COALESCE(SUM(amount), 0) AS total_amount
        FROM expenses`+where, args)
	if err != nil {
		return nil, err
	}
	if err := db.GetContext(ctx, &s, query, queryArgs...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Update(ctx context.Context, e *model.Expense) error {
	query := `
        UPDATE expenses
        SET date = :date,
            category = :category,
            description = :description,
            amount = :amount,
            payment_method = :payment_method,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, e)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM expenses WHERE owner_id = $1 AND id = $2", ownerID, id)
	return err
}
