package auth

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of account kinds. The numeric values are the wire
// format shared with the dashboards; 4 is not assigned.
type Role int

const (
	RoleAdmin    Role = 0
	RoleStore    Role = 1
	RoleCustomer Role = 2
	RoleCourier  Role = 3
	RoleSubUser  Role = 5
)

var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleStore:    "store",
	RoleCustomer: "customer",
	RoleCourier:  "courier",
	RoleSubUser:  "sub_user",
}

// ParseRole converts a stored or submitted integer into a Role.
func ParseRole(v int) (Role, error) {
	r := Role(v)
	if !r.IsValid() {
		return 0, fmt.Errorf("unknown role %d", v)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", r)
	}
	return json.Marshal(int(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("role must be an integer: %w", err)
	}
	parsed, err := ParseRole(v)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
