package store

import "time"

type Store struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)"`
	OwnerID      string     `gorm:"column:owner_id;type:varchar(36);not null;uniqueIndex"`
	Name         string     `gorm:"column:name;not null"`
	Description  string     `gorm:"column:description"`
	Phone        string     `gorm:"column:phone"`
	Address      string     `gorm:"column:address"`
	ServiceArea  string     `gorm:"column:service_area"`
	Status       string     `gorm:"column:status;not null;default:pending;index"`
	RejectReason string     `gorm:"column:reject_reason"`
	IsOpen       bool       `gorm:"column:is_open;not null;default:false"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Store) TableName() string {
	return "stores"
}
