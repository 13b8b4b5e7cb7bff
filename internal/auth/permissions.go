package auth

import "fmt"

// Capability names one of the sub-user permission flags.
type Capability string

const (
	CanViewUsers         Capability = "canViewUsers"
	CanManageUsers       Capability = "canManageUsers"
	CanViewStores        Capability = "canViewStores"
	CanManageStores      Capability = "canManageStores"
	CanViewOrders        Capability = "canViewOrders"
	CanManageOrders      Capability = "canManageOrders"
	CanViewCategories    Capability = "canViewCategories"
	CanManageCategories  Capability = "canManageCategories"
	CanSendNotifications Capability = "canSendNotifications"
	CanViewAnalytics     Capability = "canViewAnalytics"
	CanViewCouriers      Capability = "canViewCouriers"
	CanManageCouriers    Capability = "canManageCouriers"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{
	CanViewUsers,
	CanManageUsers,
	CanViewStores,
	CanManageStores,
	CanViewOrders,
	CanManageOrders,
	CanViewCategories,
	CanManageCategories,
	CanSendNotifications,
	CanViewAnalytics,
	CanViewCouriers,
	CanManageCouriers,
}

var capabilityLabels = map[Capability]string{
	CanViewUsers:         "View users",
	CanManageUsers:       "Manage users",
	CanViewStores:        "View stores",
	CanManageStores:      "Manage stores",
	CanViewOrders:        "View orders",
	CanManageOrders:      "Manage orders",
	CanViewCategories:    "View categories",
	CanManageCategories:  "Manage categories",
	CanSendNotifications: "Send notifications",
	CanViewAnalytics:     "View analytics",
	CanViewCouriers:      "View couriers",
	CanManageCouriers:    "Manage couriers",
}

func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if _, ok := capabilityLabels[c]; !ok {
		return "", fmt.Errorf("unknown capability %q", s)
	}
	return c, nil
}

func (c Capability) Label() string {
	return capabilityLabels[c]
}

// Permissions is the explicit flag set carried by sub-users. A flag that was
// never set reads as denied.
type Permissions struct {
	CanViewUsers         bool `json:"canViewUsers"`
	CanManageUsers       bool `json:"canManageUsers"`
	CanViewStores        bool `json:"canViewStores"`
	CanManageStores      bool `json:"canManageStores"`
	CanViewOrders        bool `json:"canViewOrders"`
	CanManageOrders      bool `json:"canManageOrders"`
	CanViewCategories    bool `json:"canViewCategories"`
	CanManageCategories  bool `json:"canManageCategories"`
	CanSendNotifications bool `json:"canSendNotifications"`
	CanViewAnalytics     bool `json:"canViewAnalytics"`
	CanViewCouriers      bool `json:"canViewCouriers"`
	CanManageCouriers    bool `json:"canManageCouriers"`
}

func (p *Permissions) flag(c Capability) *bool {
	switch c {
	case CanViewUsers:
		return &p.CanViewUsers
	case CanManageUsers:
		return &p.CanManageUsers
	case CanViewStores:
		return &p.CanViewStores
	case CanManageStores:
		return &p.CanManageStores
	case CanViewOrders:
		return &p.CanViewOrders
	case CanManageOrders:
		return &p.CanManageOrders
	case CanViewCategories:
		return &p.CanViewCategories
	case CanManageCategories:
		return &p.CanManageCategories
	case CanSendNotifications:
		return &p.CanSendNotifications
	case CanViewAnalytics:
		return &p.CanViewAnalytics
	case CanViewCouriers:
		return &p.CanViewCouriers
	case CanManageCouriers:
		return &p.CanManageCouriers
	}
	return nil
}

// Allows is nil-safe; an unknown capability is denied.
func (p *Permissions) Allows(c Capability) bool {
	if p == nil {
		return false
	}
	f := p.flag(c)
	return f != nil && *f
}

func (p *Permissions) Set(c Capability, v bool) error {
	f := p.flag(c)
	if f == nil {
		return fmt.Errorf("unknown capability %q", c)
	}
	*f = v
	return nil
}

// ToMap is the storage form of the flag set.
func (p *Permissions) ToMap() map[string]bool {
	if p == nil {
		return nil
	}
	m := make(map[string]bool, len(Capabilities))
	for _, c := range Capabilities {
		m[string(c)] = p.Allows(c)
	}
	return m
}

// PermissionsFromMap ignores unknown keys so stale documents still load.
func PermissionsFromMap(m map[string]bool) *Permissions {
	if m == nil {
		return nil
	}
	p := &Permissions{}
	for k, v := range m {
		if c, err := ParseCapability(k); err == nil {
			_ = p.Set(c, v)
		}
	}
	return p
}

// HasPermission reports whether user holds capability. Sub-users are limited
// to their explicit flags; every other role holds all capabilities implicitly.
func HasPermission(user *User, c Capability) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleSubUser {
		return user.Permissions.Allows(c)
	}
	return true
}

// CanAccessAdmin gates admin endpoints: admins always pass, sub-users pass
// per flag, every other role is refused.
func CanAccessAdmin(user *User, c Capability) bool {
	if user == nil || user.Banned {
		return false
	}
	switch user.Role {
	case RoleAdmin:
		return true
	case RoleSubUser:
		return HasPermission(user, c)
	default:
		return false
	}
}
