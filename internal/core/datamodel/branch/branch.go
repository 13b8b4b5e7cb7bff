package branch

import "time"

type Request struct {
	ID               string     `gorm:"primaryKey;type:varchar(36)"`
	RequesterStoreID string     `gorm:"column:requester_store_id;type:varchar(36);not null;index"`
	TargetStoreID    string     `gorm:"column:target_store_id;type:varchar(36);not null;index"`
	Status           string     `gorm:"column:status;not null;default:pending;index"`
	Note             string     `gorm:"column:note"`
	Version          int64      `gorm:"column:version;not null;default:1"`
	DecidedBy        *string    `gorm:"column:decided_by;type:varchar(36)"`
	DecidedAt        *time.Time `gorm:"column:decided_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "branch_requests"
}
