package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	userDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/user"
)

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*User, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		u, err := FromDataModel(row)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping user with unknown role", "user_id", row.ID, "role", row.Role)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// RecipientIDs lists the ids of users that may receive notifications. A nil
// role selects every role.
func (s *Service) RecipientIDs(ctx context.Context, role *auth.Role) ([]string, error) {
	banned := false
	users, err := s.List(ctx, ListFilter{Role: role, Banned: &banned})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to get user", fmt.Errorf("get user by id: %w", err))
	}

	u, err := FromDataModel(row)
	if err != nil {
		return nil, internal.NewInternalError("user has an invalid role", err)
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, actor *auth.User, id string, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardAdminTarget(actor, target); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Phone != nil {
		fields["phone"] = *dto.Phone
	}
	if dto.Role != nil && *dto.Role != target.Role {
		if actor != nil && actor.ID == id {
			return nil, internal.NewForbiddenError("you cannot change your own role", internal.ErrCodeUnauthorizedAccess)
		}
		if !dto.Role.IsValid() {
			return nil, internal.NewValidationFieldError("role", "role is not valid", internal.ErrCodeInvalidRole)
		}
		if *dto.Role == auth.RoleAdmin && !actor.IsAdmin() {
			return nil, internal.ErrInsufficientPermissions
		}
		fields["role"] = int(*dto.Role)
		if *dto.Role == auth.RoleSubUser {
			fields["permissions"] = userDatamodel.PermissionSet((&auth.Permissions{}).ToMap())
		} else {
			fields["permissions"] = userDatamodel.PermissionSet(nil)
		}
	}
	if len(fields) == 0 {
		return target, nil
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user updated", "user_id", id, "fields", len(fields))
	return s.GetByID(ctx, id)
}

func (s *Service) Ban(ctx context.Context, actor *auth.User, id string) (*User, error) {
	return s.setBanned(ctx, actor, id, true)
}

func (s *Service) Unban(ctx context.Context, actor *auth.User, id string) (*User, error) {
	return s.setBanned(ctx, actor, id, false)
}

func (s *Service) setBanned(ctx context.Context, actor *auth.User, id string, banned bool) (*User, error) {
	if actor != nil && actor.ID == id {
		return nil, internal.NewForbiddenError("you cannot ban your own account", internal.ErrCodeUnauthorizedAccess)
	}
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardAdminTarget(actor, target); err != nil {
		return nil, err
	}
	if err := s.update(ctx, id, map[string]interface{}{"banned": banned}); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user ban status changed", "user_id", id, "banned", banned)
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor *auth.User, id string) error {
	if actor != nil && actor.ID == id {
		return internal.NewForbiddenError("you cannot delete your own account", internal.ErrCodeUnauthorizedAccess)
	}
	target, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := guardAdminTarget(actor, target); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return err
		}
		s.logger.ErrorContext(ctx, "failed to delete user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *Service) GetPermissions(ctx context.Context, id string) ([]PermissionEntry, *User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return PermissionsView(u), u, nil
}

// UpdatePermissions replaces the flag set of a sub-user. Nobody edits their
// own flags, and a non-admin actor can only grant flags it holds itself.
func (s *Service) UpdatePermissions(ctx context.Context, actor *auth.User, id string, perms auth.Permissions) (*User, error) {
	if actor != nil && actor.ID == id {
		return nil, internal.NewForbiddenError("you cannot change your own permissions", internal.ErrCodeUnauthorizedAccess)
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsSubUser() {
		return nil, internal.ErrNotSubUser
	}

	if !actor.IsAdmin() {
		for _, c := range auth.Capabilities {
			if perms.Allows(c) && !u.Permissions.Allows(c) && !auth.HasPermission(actor, c) {
				s.logger.WarnContext(ctx, "permission grant refused", "user_id", id, "capability", string(c))
				return nil, internal.ErrInsufficientPermissions
			}
		}
	}

	if err := s.update(ctx, id, map[string]interface{}{"permissions": userDatamodel.PermissionSet(perms.ToMap())}); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "sub-user permissions updated", "user_id", id)
	return s.GetByID(ctx, id)
}

func (s *Service) CreateSubUser(ctx context.Context, dto CreateSubUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if exists {
		return nil, internal.ErrDuplicateEmail
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := NewUser(dto.Email, dto.Name, hash, auth.RoleSubUser)
	if dto.Permissions != nil {
		perms := *dto.Permissions
		u.Permissions = &perms
	}

	if err := s.repo.Create(ctx, ToDataModel(u)); err != nil {
		s.logger.ErrorContext(ctx, "failed to create sub-user", "error", err)
		return nil, internal.NewInternalError("failed to create sub-user", err)
	}

	s.logger.InfoContext(ctx, "sub-user created", "user_id", u.ID)
	return u, nil
}

// guardAdminTarget keeps admin accounts out of reach of everyone but admins.
func guardAdminTarget(actor *auth.User, target *User) error {
	if target.Role == auth.RoleAdmin && !actor.IsAdmin() {
		return internal.ErrInsufficientPermissions
	}
	return nil
}

func (s *Service) update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return err
		}
		s.logger.ErrorContext(ctx, "failed to update user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to update user", err)
	}
	return nil
}
