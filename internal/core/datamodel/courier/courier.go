package courier

import "time"

type Courier struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)"`
	UserID            *string   `gorm:"column:user_id;type:varchar(36);uniqueIndex"`
	Name              string    `gorm:"column:name;not null"`
	Phone             string    `gorm:"column:phone"`
	IsActive          bool      `gorm:"column:is_active;not null;default:false"`
	IsOnline          bool      `gorm:"column:is_online;not null;default:false"`
	Banned            bool      `gorm:"column:banned;not null;default:false"`
	WorkingHoursStart *string   `gorm:"column:working_hours_start;type:varchar(5)"`
	WorkingHoursEnd   *string   `gorm:"column:working_hours_end;type:varchar(5)"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Courier) TableName() string {
	return "couriers"
}
