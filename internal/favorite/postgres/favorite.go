package postgres

import (
	"context"

	favoriteDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/favorite"
	"github.com/frahmantamala/marketplace/internal/favorite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) favorite.RepositoryAPI {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, f *favoriteDatamodel.FavoriteStore) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *FavoriteRepository) Remove(ctx context.Context, customerID, storeID string) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND store_id = ?", customerID, storeID).
		Delete(&favoriteDatamodel.FavoriteStore{}).Error
}

func (r *FavoriteRepository) StoreIDs(ctx context.Context, customerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&favoriteDatamodel.FavoriteStore{}).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Pluck("store_id", &ids).Error
	return ids, err
}
