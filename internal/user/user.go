package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/marketplace/internal/auth"
	userDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/user"
)

type User struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	PasswordHash string            `json:"-"`
	Role         auth.Role         `json:"role"`
	Permissions  *auth.Permissions `json:"permissions,omitempty"`
	Banned       bool              `json:"banned"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// PermissionEntry is one row of the permissions editor.
type PermissionEntry struct {
	Capability auth.Capability `json:"capability"`
	Label      string          `json:"label"`
	Checked    bool            `json:"checked"`
}

func NewUser(email, name, passwordHash string, role auth.Role) *User {
	now := time.Now()
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == auth.RoleSubUser {
		u.Permissions = &auth.Permissions{}
	}
	return u
}

func (u *User) IsSubUser() bool {
	return u.Role == auth.RoleSubUser
}

func (u *User) Principal() *auth.User {
	return &auth.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions,
		Banned:      u.Banned,
	}
}

// PermissionsView lists every capability in display order. Only sub-users
// carry explicit flags, so other roles show every entry unchecked.
func PermissionsView(u *User) []PermissionEntry {
	entries := make([]PermissionEntry, 0, len(auth.Capabilities))
	for _, c := range auth.Capabilities {
		checked := false
		if u != nil && u.IsSubUser() {
			checked = auth.HasPermission(u.Principal(), c)
		}
		entries = append(entries, PermissionEntry{
			Capability: c,
			Label:      c.Label(),
			Checked:    checked,
		})
	}
	return entries
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         int(u.Role),
		Permissions:  userDatamodel.PermissionSet(u.Permissions.ToMap()),
		Banned:       u.Banned,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// FromDataModel fails on a role outside the closed set.
func FromDataModel(u *userDatamodel.User) (*User, error) {
	role, err := auth.ParseRole(u.Role)
	if err != nil {
		return nil, err
	}
	out := &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         role,
		Banned:       u.Banned,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if role == auth.RoleSubUser {
		out.Permissions = auth.PermissionsFromMap(u.Permissions)
		if out.Permissions == nil {
			out.Permissions = &auth.Permissions{}
		}
	}
	return out, nil
}
