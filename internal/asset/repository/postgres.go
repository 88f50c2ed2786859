package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/accountbook-service/internal/asset/dto"
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

func (r *PGRepository) Create(ctx context.Context, a *model.Asset) error {
	query := `
        INSERT INTO assets (
            id, owner_id, asset_name, category, purchase_date, purchase_price,
            gst_percentage, gst_amount, total_cost, depreciation_method,
            depreciation_rate, useful_life_years, notes, created_at, updated_at
        )
        VALUES (
            :id, :owner_id, :asset_name, :category, :purchase_date, :purchase_price,
            :gst_percentage, :gst_amount, :total_cost, :depreciation_method,
            :depreciation_rate, :useful_life_years, :notes, :created_at, :updated_at
        )
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Asset, error) {
	var a model.Asset
	query := `SELECT * FROM assets WHERE owner_id = $1 AND id = $2 LIMIT 1`
	err := postgres.Conn(ctx, r.DB).GetContext(ctx, &a, query, ownerID, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.AssetFilters) ([]model.Asset, int, error) {
	var items []model.Asset
	var count int

	conditions := []string{"owner_id = :owner_id"}
	args := map[string]interface{}{"owner_id": f.OwnerID}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(asset_name ILIKE :search OR notes ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	db := postgres.Conn(ctx, r.DB)
	countQuery, countArgs, err := db.BindNamed("SELECT count(*) FROM assets"+where, args)
	if err != nil {
		return nil, 0, err
	}
	if err := db.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM assets" + where + " ORDER BY purchase_date DESC, created_at DESC"
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

func (r *PGRepository) Update(ctx context.Context, a *model.Asset) error {
	query := `
        UPDATE assets
        SET asset_name = :asset_name,
            category = :category,
            purchase_date = :purchase_date,
            purchase_price = :purchase_price,
            gst_percentage = :gst_percentage,
            gst_amount = :gst_amount,
            total_cost = :total_cost,
            depreciation_method = :depreciation_method,
            depreciation_rate = :depreciation_rate,
            useful_life_years = :useful_life_years,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id AND owner_id = :owner_id
    `
	_, err := postgres.Conn(ctx, r.DB).NamedExecContext(ctx, query, a)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, ownerID, id string) error {
	_, err := postgres.Conn(ctx, r.DB).ExecContext(ctx, "DELETE FROM assets WHERE owner_id = $1 AND id = $2", ownerID, id)
	return err
}
