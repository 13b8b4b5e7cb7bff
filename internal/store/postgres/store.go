package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	storeDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/store"
	"github.com/frahmantamala/marketplace/internal/store"
	"gorm.io/gorm"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) store.RepositoryAPI {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) List(ctx context.Context, filter store.ListFilter) ([]*storeDatamodel.Store, error) {
	q := r.db.WithContext(ctx).Model(&storeDatamodel.Store{})
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if filter.ExcludeID != "" {
		q = q.Where("id <> ?", filter.ExcludeID)
	}
	if filter.IDs != nil {
		q = q.Where("id IN ?", filter.IDs)
	}

	var stores []*storeDatamodel.Store
	err := q.Order("name ASC").Find(&stores).Error
	return stores, err
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*storeDatamodel.Store, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *StoreRepository) GetByOwnerID(ctx context.Context, ownerID string) (*storeDatamodel.Store, error) {
	return r.first(ctx, "owner_id = ?", ownerID)
}

func (r *StoreRepository) first(ctx context.Context, query string, arg interface{}) (*storeDatamodel.Store, error) {
	var s storeDatamodel.Store
	if err := r.db.WithContext(ctx).Where(query, arg).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrStoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepository) Create(ctx context.Context, s *storeDatamodel.Store) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrStoreAlreadyExists
	}
	return err
}

func (r *StoreRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&storeDatamodel.Store{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrStoreNotFound
	}
	return nil
}

func (r *StoreRepository) UpdateIfStatus(ctx context.Context, id string, status string, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&storeDatamodel.Store{}).
		Where("id = ? AND status = ?", id, status).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
