package favorite

import "time"

type FavoriteStore struct {
	CustomerID string    `gorm:"primaryKey;column:customer_id;type:varchar(36)"`
	StoreID    string    `gorm:"primaryKey;column:store_id;type:varchar(36)"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (FavoriteStore) TableName() string {
	return "favorite_stores"
}
