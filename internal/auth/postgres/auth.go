package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	userDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "password_hash", "banned").
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	return &auth.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Banned:       u.Banned,
	}, nil
}

func (r *Repository) GetPrincipal(ctx context.Context, userID string) (*auth.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	role, err := auth.ParseRole(u.Role)
	if err != nil {
		return nil, err
	}

	principal := &auth.User{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   role,
		Banned: u.Banned,
	}
	if role == auth.RoleSubUser {
		principal.Permissions = auth.PermissionsFromMap(u.Permissions)
		if principal.Permissions == nil {
			principal.Permissions = &auth.Permissions{}
		}
	}
	return principal, nil
}
