package notification

import (
	"time"

	"github.com/google/uuid"

	notificationDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/notification"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypePromo   Type = "promo"
	TypeWarning Type = "warning"
	TypeSystem  Type = "system"
)

var Types = []Type{TypeInfo, TypePromo, TypeWarning, TypeSystem}

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	SenderID  string     `json:"sender_id,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Type      Type       `json:"type"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewNotification(userID, senderID, title, body string, t Type, at time.Time) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		SenderID:  senderID,
		Title:     title,
		Body:      body,
		Type:      t,
		CreatedAt: at,
	}
}

// Message is the broker payload for one delivered notification.
type Message struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Type           Type      `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

func (n *Notification) Message() Message {
	return Message{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Body:           n.Body,
		Type:           n.Type,
		CreatedAt:      n.CreatedAt,
	}
}

func ToDataModel(n *Notification) *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		SenderID:  n.SenderID,
		Title:     n.Title,
		Body:      n.Body,
		Type:      string(n.Type),
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		SenderID:  n.SenderID,
		Title:     n.Title,
		Body:      n.Body,
		Type:      Type(n.Type),
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
