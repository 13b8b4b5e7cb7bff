package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/courier"
	courierDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/courier"
	"gorm.io/gorm"
)

type CourierRepository struct {
	db *gorm.DB
}

func NewCourierRepository(db *gorm.DB) courier.RepositoryAPI {
	return &CourierRepository{db: db}
}

func (r *CourierRepository) List(ctx context.Context, filter courier.ListFilter) ([]*courierDatamodel.Courier, error) {
	q := r.db.WithContext(ctx).Model(&courierDatamodel.Courier{})
	if filter.Online != nil {
		q = q.Where("is_online = ?", *filter.Online)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}

	var couriers []*courierDatamodel.Courier
	err := q.Order("name ASC").Find(&couriers).Error
	return couriers, err
}

func (r *CourierRepository) GetByID(ctx context.Context, id string) (*courierDatamodel.Courier, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CourierRepository) GetByUserID(ctx context.Context, userID string) (*courierDatamodel.Courier, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *CourierRepository) first(ctx context.Context, query string, arg interface{}) (*courierDatamodel.Courier, error) {
	var c courierDatamodel.Courier
	if err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCourierNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CourierRepository) Create(ctx context.Context, c *courierDatamodel.Courier) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CourierRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&courierDatamodel.Courier{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrCourierNotFound
	}
	return nil
}
