package option

import "time"

type Option struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	PartnerID string    `gorm:"column:partner_id;type:varchar(36);not null;index"`
	ParentID  *string   `gorm:"column:parent_id;type:varchar(36);index"`
	Type      string    `gorm:"column:type;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name the dashboards already use.
func (Option) TableName() string {
	return "product_categories"
}
