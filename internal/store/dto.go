package store

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
)

type RegisterStoreDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ServiceArea string `json:"service_area"`
}

func (d *RegisterStoreDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("description", d.Description).MaxLength(2000)
	v.Field("phone", d.Phone).MaxLength(32)
	v.Field("address", d.Address).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RejectStoreDTO struct {
	Reason string `json:"reason"`
}

func (d *RejectStoreDTO) Validate() error {
	d.Reason = strings.TrimSpace(d.Reason)
	v := validation.NewValidator()
	v.Field("reason", d.Reason).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateSettingsDTO is the partial update sent by the partner dashboard.
type UpdateSettingsDTO struct {
	IsOpen      *bool   `json:"is_open,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
}

func (d *UpdateSettingsDTO) Validate() error {
	if d.IsOpen == nil && d.Name == nil && d.Description == nil && d.Phone == nil && d.Address == nil {
		return internal.NewValidationError("nothing to update", internal.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", d.Name).Required().MaxLength(120)
	}
	v.Field("description", d.Description).MaxLength(2000)
	v.Field("phone", d.Phone).MaxLength(32)
	v.Field("address", d.Address).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Status *Status
	Search string
	// ExcludeID drops one store from the result, used to hide the caller.
	ExcludeID string
	// IDs restricts the result when non-nil; an empty slice matches nothing.
	IDs []string
}

type StoresResponse struct {
	Stores []*Store `json:"stores"`
}
