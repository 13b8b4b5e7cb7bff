package notification

import "time"

type Notification struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `gorm:"column:user_id;type:varchar(36);not null;index"`
	SenderID  string     `gorm:"column:sender_id;type:varchar(36)"`
	Title     string     `gorm:"column:title;not null"`
	Body      string     `gorm:"column:body"`
	Type      string     `gorm:"column:type;not null;default:info"`
	Read      bool       `gorm:"column:read;not null;default:false"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
