package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/fekuna/accountbook-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, owner_id, name, name_key, product_code, category, unit,
            opening_stock, current_stock, ledger_balance, minimum_stock,
            location, notes, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :name, :name_key, :product_code, :category, :unit,
            :opening_stock, :current_stock, :ledger_balance, :minimum_stock,
            :location, :notes, :created_at, :updated_at
        )
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return mapErr(err, p.Name)
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &product, query, ownerID, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR product_code ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	if f.LowStockOnly {
		conditions = append(conditions, "current_stock <= minimum_stock")
	}

	db := postgres.Conn(ctx, r.DB)
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	// Count
	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	// List
	orderBy := "name ASC"
	if f.SortBy != "" {
		// Whitelisted to keep user input out of the SQL
		switch f.SortBy {
		case "stock":
			orderBy = "current_stock"
		case "created_at":
			orderBy = "created_at"
		default:
			orderBy = "name"
		}
		if strings.ToLower(f.SortOrder) == "desc" {
			orderBy += " DESC"
		} else {
			orderBy += " ASC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	query, queryArgs, err := db.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.SelectContext(ctx, &products, query, queryArgs...); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            name_key = :name_key,
            product_code = :product_code,
            category = :category,
            unit = :unit,
            minimum_stock = :minimum_stock,
            location = :location,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	return mapErr(err, p.Name)
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM products WHERE owner_id = $1 AND id = $2", ownerID, id)
	return err
}

func (r *PGRepository) IsNameUnique(ctx context.Context, key model.ProductKey, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE owner_id = $1 AND name_key = $2`
	args := []interface{}{key.OwnerID, key.Name}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, query, args...)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) CountMovements(ctx context.Context, ownerID, productID string) (int, error) {
	var count int
	query := `SELECT count(*) FROM stock_movements WHERE owner_id = $1 AND product_id = $2`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &count, query, ownerID, productID)
	return count, err
}

// mapErr turns a clash on (owner_id, name_key) into a conflict.
func mapErr(err error, name string) error {
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("product %q already exists", name)
	}
	return err
}
