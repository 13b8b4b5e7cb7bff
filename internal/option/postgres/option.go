package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/marketplace/internal"
	optionDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/option"
	"github.com/frahmantamala/marketplace/internal/option"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OptionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) option.RepositoryAPI {
	return &OptionRepository{db: db}
}

func (r *OptionRepository) ListByPartner(ctx context.Context, partnerID string) ([]*optionDatamodel.Option, error) {
	var opts []*optionDatamodel.Option
	err := r.db.WithContext(ctx).Where("partner_id = ?", partnerID).Order("type ASC, name ASC").Find(&opts).Error
	return opts, err
}

func (r *OptionRepository) GetByID(ctx context.Context, partnerID, id string) (*optionDatamodel.Option, error) {
	var o optionDatamodel.Option
	err := r.db.WithContext(ctx).Where("partner_id = ? AND id = ?", partnerID, id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrOptionNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OptionRepository) Create(ctx context.Context, o *optionDatamodel.Option) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OptionRepository) Update(ctx context.Context, o *optionDatamodel.Option) error {
	res := r.db.WithContext(ctx).
		Model(&optionDatamodel.Option{}).
		Where("partner_id = ? AND id = ?", o.PartnerID, o.ID).
		Select("parent_id", "name", "value", "updated_at").
		Updates(o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrOptionNotFound
	}
	return nil
}

func (r *OptionRepository) DeleteTree(ctx context.Context, partnerID, id string) ([]string, error) {
	var deleted []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []*optionDatamodel.Option
		q := tx.Where("partner_id = ?", partnerID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Find(&rows).Error; err != nil {
			return err
		}

		all := option.FromDataModels(rows)
		found := false
		for _, o := range all {
			if o.ID == id {
				found = true
				break
			}
		}
		if !found {
			return internal.ErrOptionNotFound
		}

		deleted = option.SubtreeIDs(all, id)
		return tx.Where("partner_id = ? AND id IN ?", partnerID, deleted).Delete(&optionDatamodel.Option{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
