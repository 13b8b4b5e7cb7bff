package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeStoreApproved   = "store.approved"
	EventTypeStoreRejected   = "store.rejected"
	EventTypeBranchRequested = "branch.requested"
	EventTypeBranchDecided   = "branch.decided"
	EventTypeBranchRevoked   = "branch.revoked"
)

type StoreReviewedEvent struct {
	BaseEvent
	StoreID string `json:"store_id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Reason  string `json:"reason,omitempty"`
}

func NewStoreReviewedEvent(approved bool, storeID, ownerID, name, reason string) *StoreReviewedEvent {
	eventType := EventTypeStoreRejected
	if approved {
		eventType = EventTypeStoreApproved
	}
	return &StoreReviewedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"store_id": storeID,
				"owner_id": ownerID,
				"name":     name,
				"reason":   reason,
			},
		},
		StoreID: storeID,
		OwnerID: ownerID,
		Name:    name,
		Reason:  reason,
	}
}

func (e *StoreReviewedEvent) Approved() bool {
	return e.Type == EventTypeStoreApproved
}

// BranchEvent carries a branch request transition. NotifyStoreID is the
// store on the other side of the actor.
type BranchEvent struct {
	BaseEvent
	RequestID     string `json:"request_id"`
	Status        string `json:"status"`
	NotifyStoreID string `json:"notify_store_id"`
}

func NewBranchEvent(eventType, requestID, status, notifyStoreID string) *BranchEvent {
	return &BranchEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_id":      requestID,
				"status":          status,
				"notify_store_id": notifyStoreID,
			},
		},
		RequestID:     requestID,
		Status:        status,
		NotifyStoreID: notifyStoreID,
	}
}
