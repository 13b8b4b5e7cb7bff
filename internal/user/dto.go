package user

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
)

type ListFilter struct {
	Role   *auth.Role
	Banned *bool
	Search string
}

// UpdateUserDTO is a partial update of profile fields and role.
type UpdateUserDTO struct {
	Name  *string    `json:"name"`
	Phone *string    `json:"phone"`
	Role  *auth.Role `json:"role"`
}

func (d *UpdateUserDTO) Validate() error {
	if d.Name == nil && d.Phone == nil && d.Role == nil {
		return internal.NewValidationError("nothing to update", internal.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
		v.Field("name", d.Name).Required().MaxLength(120)
	}
	v.Field("phone", d.Phone).MaxLength(32)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateSubUserDTO struct {
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Password    string            `json:"password"`
	Permissions *auth.Permissions `json:"permissions"`
}

func (d *CreateSubUserDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}

type PermissionsResponse struct {
	UserID      string            `json:"user_id"`
	Role        auth.Role         `json:"role"`
	Permissions []PermissionEntry `json:"permissions"`
}
