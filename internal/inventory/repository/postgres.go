package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	"github.com/fekuna/accountbook-service/internal/model"
	"github.com/fekuna/accountbook-service/internal/pkg/apperr"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindProductByKey(ctx context.Context, key model.ProductKey) (*model.Product, error) {
	var p model.Product
	query := `
        SELECT * FROM products
        WHERE owner_id = $1 AND name_key = $2
        ORDER BY created_at
        LIMIT 1
        FOR UPDATE
    `
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &p, query, key.OwnerID, key.Name)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindProductByID(ctx context.Context, ownerID, productID string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE owner_id = $1 AND id = $2 FOR UPDATE`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &p, query, ownerID, productID)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) ListProducts(ctx context.Context, ownerID string) ([]model.Product, error) {
	var items []model.Product
	query := `SELECT * FROM products WHERE owner_id = $1 ORDER BY created_at FOR UPDATE`
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &items, query, ownerID)
	return items, err
}

func (r *PGRepository) CreateProduct(ctx context.Context, p *model.Product) error {
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
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("product %q already exists", p.Name)
	}
	return err
}

func (r *PGRepository) UpdateStock(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET current_stock = :current_stock,
            ledger_balance = :ledger_balance,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return nil
}

const insertMovementQuery = `
        INSERT INTO stock_movements (
            id, owner_id, product_id, product_name, direction, quantity,
            reference_type, reference_id, stock_before, stock_after,
            notes, movement_date, created_at
        )
        VALUES (
            :id, :owner_id, :product_id, :product_name, :direction, :quantity,
            :reference_type, :reference_id, :stock_before, :stock_after,
            :notes, :movement_date, :created_at
        )
    `

func (r *PGRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, insertMovementQuery, m)
	if err != nil {
		return fmt.Errorf("failed to log movement: %w", err)
	}
	return nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.StockMovement, int, error) {
	var items []model.StockMovement
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Direction != "" {
		conditions = append(conditions, "direction = :direction")
		args["direction"] = f.Direction
	}
	if f.ReferenceType != "" {
		conditions = append(conditions, "reference_type = :reference_type")
		args["reference_type"] = f.ReferenceType
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "movement_date >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "movement_date <= :end_date")
		args["end_date"] = *f.EndDate
	}

	db := postgres.Conn(ctx, r.DB)
	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM stock_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM stock_movements" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) Holdings(ctx context.Context, ownerID, referenceID string) ([]dto.Holding, error) {
	var items []dto.Holding
	query := `
        SELECT
            product_id,
            (array_agg(product_name ORDER BY created_at DESC))[1] AS product_name,
            SUM(CASE WHEN direction = 'IN' THEN quantity ELSE -quantity END) AS quantity
        FROM stock_movements
        WHERE owner_id = $1 AND reference_id = $2
        GROUP BY product_id
        HAVING SUM(CASE WHEN direction = 'IN' THEN quantity ELSE -quantity END) <> 0
        ORDER BY MIN(created_at)
    `
	err := postgres.Conn(ctx, r.DB).SelectContext(ctx, &items, query, ownerID, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	return items, nil
}

func (r *PGRepository) SumMovements(ctx context.Context, ownerID, productID string) (int, int, error) {
	var totals struct {
		In  int `db:"total_in"`
		Out int `db:"total_out"`
	}
	query := `
        SELECT
            COALESCE(SUM(quantity) FILTER (WHERE direction = 'IN'), 0) AS total_in,
            COALESCE(SUM(quantity) FILTER (WHERE direction = 'OUT'), 0) AS total_out
        FROM stock_movements
        WHERE owner_id = $1 AND product_id = $2
    `
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &totals, query, ownerID, productID)
	return totals.In, totals.Out, err
}
