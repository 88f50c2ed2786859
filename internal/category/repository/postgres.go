package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/category/dto"
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

func (r *PGRepository) Create(ctx context.Context, c *model.ExpenseCategory) error {
	query := `
        INSERT INTO expense_categories (id, owner_id, category_name, is_selling_expense, created_at, updated_at)
        VALUES (:id, :owner_id, :category_name, :is_selling_expense, :created_at, :updated_at)
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.ExpenseCategory, error) {
	var category model.ExpenseCategory
	query := `SELECT * FROM expense_categories WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &category, query, ownerID, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.ExpenseCategory, int, error) {
	var categories []model.ExpenseCategory
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.SellingOnly {
		conditions = append(conditions, "is_selling_expense = TRUE")
	}
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	db := postgres.Conn(ctx, r.DB)
	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM expense_categories"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM expense_categories" + whereClause + " ORDER BY category_name ASC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	query, queryArgs, err := db.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.SelectContext(ctx, &categories, query, queryArgs...); err != nil {
		return nil, 0, err
	}
	return categories, count, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.ExpenseCategory) error {
	query := `
        UPDATE expense_categories
        SET category_name = :category_name,
            is_selling_expense = :is_selling_expense,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM expense_categories WHERE owner_id = $1 AND id = $2", ownerID, id)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, ownerID, name, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM expense_categories WHERE owner_id = $1 AND lower(category_name) = lower($2) AND id::text <> $3`
	if err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, query, ownerID, strings.TrimSpace(name), excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}
