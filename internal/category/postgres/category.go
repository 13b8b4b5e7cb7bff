package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/category"
	categoryDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/category"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListByPartner(ctx context.Context, partnerID string) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, partnerID, id string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("partner_id = ? AND id = ?", partnerID, id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	res := r.db.WithContext(ctx).
		Model(&categoryDatamodel.Category{}).
		Where("partner_id = ? AND id = ?", cat.PartnerID, cat.ID).
		Select("parent_id", "name", "description", "image_url", "sort_order", "is_active", "updated_at").
		Updates(cat)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrCategoryNotFound
	}
	return nil
}

// DeleteTree locks the partner's rows and removes the subtree in one transaction.
func (r *CategoryRepository) DeleteTree(ctx context.Context, partnerID, id string) ([]string, error) {
	var deleted []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []*categoryDatamodel.Category
		q := tx.Where("partner_id = ?", partnerID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Find(&rows).Error; err != nil {
			return err
		}

		all := category.FromDataModels(rows)
		found := false
		for _, c := range all {
			if c.ID == id {
				found = true
				break
			}
		}
		if !found {
			return internal.ErrCategoryNotFound
		}

		deleted = category.SubtreeIDs(all, id)
		return tx.Where("partner_id = ? AND id IN ?", partnerID, deleted).
			Delete(&categoryDatamodel.Category{}).Error
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
