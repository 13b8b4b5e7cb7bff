package category

import "time"

type Category struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	PartnerID   string    `gorm:"column:partner_id;type:varchar(36);not null;index"`
	ParentID    *string   `gorm:"column:parent_id;type:varchar(36);index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	ImageURL    string    `gorm:"column:image_url"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
