package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	notificationDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/notification"
	"github.com/frahmantamala/marketplace/internal/notification"
	"gorm.io/gorm"
)

const batchSize = 500

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, rows []*notificationDatamodel.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, batchSize).Error
	})
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*notificationDatamodel.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var rows []*notificationDatamodel.Notification
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrNotificationNotFound
	}
	return nil
}
