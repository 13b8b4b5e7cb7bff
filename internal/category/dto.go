package category

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	ParentID    *string `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
}

func (d *CreateCategoryDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.ParentID != nil && *d.ParentID == "" {
		d.ParentID = nil
	}
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("description", d.Description).MaxLength(1000)
	v.Field("sort_order", d.SortOrder).MinInt(0, internal.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateCategoryDTO is a partial update. An empty parent_id moves the
// category to the root.
type UpdateCategoryDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	ParentID    *string `json:"parent_id"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

func (d *UpdateCategoryDTO) Validate() error {
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
	}
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(120)
	}
	v.Field("description", d.Description).MaxLength(1000)
	v.Field("sort_order", d.SortOrder).MinInt(0, internal.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CategoriesResponse struct {
	Categories []FlatCategory `json:"categories"`
}

type DeleteResponse struct {
	DeletedIDs []string `json:"deleted_ids"`
}
