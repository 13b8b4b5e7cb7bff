package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	notificationDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/notification"
	"github.com/frahmantamala/marketplace/pkg/broker"
)

type RepositoryAPI interface {
	// CreateBatch stores every row or none.
	CreateBatch(ctx context.Context, rows []*notificationDatamodel.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*notificationDatamodel.Notification, error)
	MarkRead(ctx context.Context, userID, id string, at time.Time) error
}

type RecipientResolver interface {
	RecipientIDs(ctx context.Context, role *auth.Role) ([]string, error)
}

// Dispatcher hands persisted notifications to the delivery pipeline.
type Dispatcher interface {
	Send(ctx context.Context, msgs ...broker.Message) error
}

type Service struct {
	repo            RepositoryAPI
	recipients      RecipientResolver
	dispatcher      Dispatcher
	dispatchTimeout time.Duration
	logger          *slog.Logger
}

// NewService accepts a nil dispatcher; notifications are then only stored.
func NewService(repo RepositoryAPI, recipients RecipientResolver, dispatcher Dispatcher, dispatchTimeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		recipients:      recipients,
		dispatcher:      dispatcher,
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
	}
}

func (s *Service) Broadcast(ctx context.Context, senderID string, dto BroadcastDTO) (*BroadcastResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	userIDs, err := s.resolveRecipients(ctx, dto)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, internal.NewValidationError("broadcast has no recipients", internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	notifications := make([]*Notification, 0, len(userIDs))
	rows := make([]*notificationDatamodel.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		n := NewNotification(id, senderID, dto.Title, dto.Body, dto.Type, now)
		notifications = append(notifications, n)
		rows = append(rows, ToDataModel(n))
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		s.logger.ErrorContext(ctx, "failed to store broadcast", "recipients", len(rows), "error", err)
		return nil, internal.NewInternalError("failed to send notifications", err)
	}

	s.logger.InfoContext(ctx, "broadcast stored", "sender_id", senderID, "recipients", len(rows), "type", dto.Type)
	return &BroadcastResponse{
		Sent:       len(rows),
		Dispatched: s.dispatch(ctx, notifications),
	}, nil
}

// resolveRecipients applies the same rule to both targets: only existing,
// unbanned users receive a row. Explicit ids outside that set are dropped.
func (s *Service) resolveRecipients(ctx context.Context, dto BroadcastDTO) ([]string, error) {
	role := dto.TargetRole
	if len(dto.UserIDs) > 0 {
		role = nil
	}
	eligible, err := s.recipients.RecipientIDs(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(dto.UserIDs) == 0 {
		return dedupe(eligible), nil
	}

	allowed := make(map[string]struct{}, len(eligible))
	for _, id := range eligible {
		allowed[id] = struct{}{}
	}
	requested := dedupe(dto.UserIDs)
	ids := make([]string, 0, len(requested))
	for _, id := range requested {
		if _, ok := allowed[id]; ok {
			ids = append(ids, id)
		}
	}
	if dropped := len(requested) - len(ids); dropped > 0 {
		s.logger.WarnContext(ctx, "broadcast skipped unknown or banned users", "dropped", dropped)
	}
	return ids, nil
}

// Notify stores a single system notification for userID.
func (s *Service) Notify(ctx context.Context, userID, title, body string) error {
	n := NewNotification(userID, "", title, body, TypeSystem, time.Now())
	if err := s.repo.CreateBatch(ctx, []*notificationDatamodel.Notification{ToDataModel(n)}); err != nil {
		return internal.NewInternalError("failed to store notification", err)
	}
	s.dispatch(ctx, []*Notification{n})
	return nil
}

// dispatch is best effort; stored notifications stay readable when the
// broker is down.
func (s *Service) dispatch(ctx context.Context, notifications []*Notification) bool {
	if s.dispatcher == nil {
		return false
	}

	msgs := make([]broker.Message, 0, len(notifications))
	for _, n := range notifications {
		msgs = append(msgs, broker.Message{Key: n.UserID, Value: n.Message()})
	}

	ctx, cancel := internal.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Send(ctx, msgs...); err != nil {
		s.logger.WarnContext(ctx, "failed to dispatch notifications", "count", len(msgs), "error", err)
		return false
	}
	return true
}

func (s *Service) ListMine(ctx context.Context, userID string, unreadOnly bool) (*NotificationsResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list notifications", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to list notifications", err)
	}

	resp := &NotificationsResponse{Notifications: make([]*Notification, 0, len(rows))}
	for _, row := range rows {
		n := FromDataModel(row)
		if !n.Read {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, n)
	}
	return resp, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id, time.Now()); err != nil {
		if errors.Is(err, internal.ErrNotificationNotFound) {
			return err
		}
		s.logger.ErrorContext(ctx, "failed to mark notification read", "notification_id", id, "error", err)
		return internal.NewInternalError("failed to update notification", err)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
