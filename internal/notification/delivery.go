package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// Delivery consumes broker messages and hands them to the user's channel.
// Only the log channel exists today.
type Delivery struct {
	logger *slog.Logger
}

func NewDelivery(logger *slog.Logger) *Delivery {
	return &Delivery{logger: logger}
}

func (d *Delivery) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var m Message
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		return fmt.Errorf("unmarshal notification message: %w", err)
	}
	if m.UserID == "" || m.NotificationID == "" {
		return fmt.Errorf("notification message at offset %d is missing ids", msg.Offset)
	}

	d.logger.InfoContext(ctx, "notification delivered",
		"notification_id", m.NotificationID,
		"user_id", m.UserID,
		"type", m.Type,
		"title", m.Title)
	return nil
}
