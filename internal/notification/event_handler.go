package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/internal/store"
)

type Notifier interface {
	Notify(ctx context.Context, userID, title, body string) error
}

type StoreLookup interface {
	Get(ctx context.Context, id string) (*store.Store, error)
}

// EventHandler turns domain events into user notifications.
type EventHandler struct {
	notifier Notifier
	stores   StoreLookup
	logger   *slog.Logger
}

func NewEventHandler(notifier Notifier, stores StoreLookup, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		notifier: notifier,
		stores:   stores,
		logger:   logger,
	}
}

func (h *EventHandler) HandleStoreReviewed(ctx context.Context, event events.Event) error {
	reviewed, ok := event.(*events.StoreReviewedEvent)
	if !ok {
		h.logger.Error("invalid event type for store reviewed handler", "event_type", event.EventType())
		return fmt.Errorf("expected StoreReviewedEvent, got %T", event)
	}

	title := fmt.Sprintf("%s was approved", reviewed.Name)
	body := "Your store is now visible to customers. You can open it from the store settings."
	if !reviewed.Approved() {
		title = fmt.Sprintf("%s was rejected", reviewed.Name)
		body = "Your store registration was rejected."
		if reviewed.Reason != "" {
			body = fmt.Sprintf("Your store registration was rejected: %s", reviewed.Reason)
		}
	}

	if err := h.notifier.Notify(ctx, reviewed.OwnerID, title, body); err != nil {
		return fmt.Errorf("notify owner of store %s: %w", reviewed.StoreID, err)
	}

	h.logger.Info("store review notification sent",
		"store_id", reviewed.StoreID,
		"owner_id", reviewed.OwnerID,
		"event_id", reviewed.EventID())
	return nil
}

func (h *EventHandler) HandleBranchEvent(ctx context.Context, event events.Event) error {
	branchEvent, ok := event.(*events.BranchEvent)
	if !ok {
		h.logger.Error("invalid event type for branch handler", "event_type", event.EventType())
		return fmt.Errorf("expected BranchEvent, got %T", event)
	}

	st, err := h.stores.Get(ctx, branchEvent.NotifyStoreID)
	if err != nil {
		return fmt.Errorf("load store %s: %w", branchEvent.NotifyStoreID, err)
	}

	var title string
	switch branchEvent.EventType() {
	case events.EventTypeBranchRequested:
		title = "New branch management request"
	case events.EventTypeBranchRevoked:
		title = "Branch management was revoked"
	default:
		title = fmt.Sprintf("Branch request %s", branchEvent.Status)
	}
	body := fmt.Sprintf("Request %s is now %s.", branchEvent.RequestID, branchEvent.Status)

	if err := h.notifier.Notify(ctx, st.OwnerID, title, body); err != nil {
		return fmt.Errorf("notify owner of store %s: %w", st.ID, err)
	}

	h.logger.Info("branch notification sent",
		"request_id", branchEvent.RequestID,
		"store_id", st.ID,
		"event_id", branchEvent.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	subscribed := []string{
		events.EventTypeStoreApproved,
		events.EventTypeStoreRejected,
		events.EventTypeBranchRequested,
		events.EventTypeBranchDecided,
		events.EventTypeBranchRevoked,
	}
	eventBus.Subscribe(events.EventTypeStoreApproved, h.HandleStoreReviewed)
	eventBus.Subscribe(events.EventTypeStoreRejected, h.HandleStoreReviewed)
	eventBus.Subscribe(events.EventTypeBranchRequested, h.HandleBranchEvent)
	eventBus.Subscribe(events.EventTypeBranchDecided, h.HandleBranchEvent)
	eventBus.Subscribe(events.EventTypeBranchRevoked, h.HandleBranchEvent)

	h.logger.Info("notification event handlers registered", "handlers", subscribed)
}
