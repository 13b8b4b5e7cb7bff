package user

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PermissionSet is the sub-user flag map stored as a JSON document.
type PermissionSet map[string]bool

func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PermissionSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported permissions type %T", src)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*p = nil
		return nil
	}
	return json.Unmarshal(raw, p)
}

type User struct {
	ID           string        `gorm:"primaryKey;type:varchar(36)"`
	Email        string        `gorm:"column:email;uniqueIndex;not null"`
	Name         string        `gorm:"column:name;not null"`
	Phone        string        `gorm:"column:phone"`
	PasswordHash string        `gorm:"column:password_hash;not null"`
	Role         int           `gorm:"column:role;not null;index"`
	Permissions  PermissionSet `gorm:"column:permissions;type:text"`
	Banned       bool          `gorm:"column:banned;not null;default:false"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
