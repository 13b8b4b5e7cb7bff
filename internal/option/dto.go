package option

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
)

func typeNames() []string {
	names := make([]string, 0, len(Types))
	for _, t := range Types {
		names = append(names, string(t))
	}
	return names
}

type CreateOptionDTO struct {
	Type     Type    `json:"type"`
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	ParentID *string `json:"parent_id"`
}

func (d *CreateOptionDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.ParentID != nil && *d.ParentID == "" {
		d.ParentID = nil
	}
	v := validation.NewValidator()
	v.Field("type", string(d.Type)).Required().OneOf(typeNames(), internal.ErrCodeInvalidOptionType)
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("value", d.Value).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateOptionDTO is partial. The type of an option is fixed once created.
type UpdateOptionDTO struct {
	Name     *string `json:"name"`
	Value    *string `json:"value"`
	ParentID *string `json:"parent_id"`
}

func (d *UpdateOptionDTO) Validate() error {
	if d.Name == nil && d.Value == nil && d.ParentID == nil {
		return internal.NewValidationError("nothing to update", internal.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", d.Name).Required().MaxLength(120)
	}
	v.Field("value", d.Value).MaxLength(255)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type OptionsResponse struct {
	Groups []Group `json:"groups"`
}

type DeleteResponse struct {
	DeletedIDs []string `json:"deleted_ids"`
}
