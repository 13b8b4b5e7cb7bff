package notification

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
)

// BroadcastDTO targets either explicit users or a role. With neither set the
// broadcast reaches every active user.
type BroadcastDTO struct {
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Type       Type       `json:"type"`
	TargetRole *auth.Role `json:"target_role,omitempty"`
	UserIDs    []string   `json:"user_ids,omitempty"`
}

func (d *BroadcastDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.Body = strings.TrimSpace(d.Body)
	if d.Type == "" {
		d.Type = TypeInfo
	}

	names := make([]string, 0, len(Types))
	for _, t := range Types {
		names = append(names, string(t))
	}

	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(120)
	v.Field("body", d.Body).Required().MaxLength(2000)
	v.Field("type", string(d.Type)).OneOf(names, internal.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}

	if d.TargetRole != nil && len(d.UserIDs) > 0 {
		return internal.NewValidationFieldError("target_role", "use either target_role or user_ids, not both", internal.ErrCodeValidationFailed)
	}
	return nil
}

type BroadcastResponse struct {
	Sent       int  `json:"sent"`
	Dispatched bool `json:"dispatched"`
}

type NotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	Unread        int             `json:"unread"`
}
