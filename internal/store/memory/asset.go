package memory

import (
	"context"
	"time"

	"github.com/fekuna/accountbook-service/internal/asset/dto"
	"github.com/fekuna/accountbook-service/internal/model"
)

type AssetRepository struct {
	s *Store
}

func NewAssetRepository(s *Store) *AssetRepository {
	return &AssetRepository{s: s}
}

func (r *AssetRepository) Create(ctx context.Context, a *model.Asset) error {
	return r.s.write(ctx, func(d *dataset) error {
		d.assets[a.ID] = *a
		return nil
	})
}

func (r *AssetRepository) FindByID(ctx context.Context, ownerID, id string) (*model.Asset, error) {
	var found *model.Asset
	r.s.read(func(d *dataset) {
		if a, ok := d.assets[id]; ok && a.OwnerID == ownerID {
			found = &a
		}
	})
	return found, nil
}

func (r *AssetRepository) FindAll(ctx context.Context, f *dto.AssetFilters) ([]model.Asset, int, error) {
	var items []model.Asset
	r.s.read(func(d *dataset) {
		for _, a := range d.assets {
			if a.OwnerID != f.OwnerID {
				continue
			}
			if f.Category != "" && a.Category != f.Category {
				continue
			}
			if f.SearchQuery != "" && !ilike(a.AssetName, f.SearchQuery) && !ilike(a.Notes, f.SearchQuery) {
				continue
			}
			items = append(items, a)
		}
	})
	newestFirst(items, func(a model.Asset) time.Time { return a.PurchaseDate }, func(a model.Asset) time.Time { return a.CreatedAt })
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *AssetRepository) Update(ctx context.Context, a *model.Asset) error {
	return r.s.write(ctx, func(d *dataset) error {
		if stored, ok := d.assets[a.ID]; ok && stored.OwnerID == a.OwnerID {
			d.assets[a.ID] = *a
		}
		return nil
	})
}

func (r *AssetRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(d *dataset) error {
		if a, ok := d.assets[id]; ok && a.OwnerID == ownerID {
			delete(d.assets, id)
		}
		return nil
	})
}
