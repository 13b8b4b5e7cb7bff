package auth

import "context"

// PermissionChecker answers capability questions about a principal. It is an
// interface so the check can later consult an external policy store.
type PermissionChecker interface {
	HasPermission(ctx context.Context, user *User, capability Capability) (bool, error)
	CanAccessAdmin(ctx context.Context, user *User, capability Capability) (bool, error)
	HasRole(ctx context.Context, user *User, roles ...Role) (bool, error)
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasPermission(_ context.Context, user *User, capability Capability) (bool, error) {
	return HasPermission(user, capability), nil
}

func (c *DefaultPermissionChecker) CanAccessAdmin(_ context.Context, user *User, capability Capability) (bool, error) {
	return CanAccessAdmin(user, capability), nil
}

func (c *DefaultPermissionChecker) HasRole(_ context.Context, user *User, roles ...Role) (bool, error) {
	if user == nil {
		return false, nil
	}
	for _, r := range roles {
		if user.Role == r {
			return true, nil
		}
	}
	return false, nil
}
