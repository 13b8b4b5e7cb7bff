package branch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	branchDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/branch"
	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/internal/store"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*branchDatamodel.Request, error)
	ListByRequester(ctx context.Context, storeID string, status *Status) ([]*branchDatamodel.Request, error)
	ListByTarget(ctx context.Context, storeID string) ([]*branchDatamodel.Request, error)
	FindActive(ctx context.Context, requesterStoreID, targetStoreID string) (*branchDatamodel.Request, error)
	Create(ctx context.Context, r *branchDatamodel.Request) error
	// Transition writes r only while the stored row is still at fromStatus
	// and fromVersion, and reports whether a row changed.
	Transition(ctx context.Context, r *branchDatamodel.Request, fromStatus string, fromVersion int64) (bool, error)
}

// StoreDirectory is the slice of the store service the branch flow reads.
type StoreDirectory interface {
	Get(ctx context.Context, id string) (*store.Store, error)
	ListApproved(ctx context.Context, filter store.ListFilter) ([]*store.Store, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	stores    StoreDirectory
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, stores StoreDirectory, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		stores:    stores,
		publisher: publisher,
		logger:    logger,
	}
}

// SearchStores lists approved stores matching query, never the caller's own.
func (s *Service) SearchStores(ctx context.Context, requesterStoreID, query string) ([]*store.Store, error) {
	return s.stores.ListApproved(ctx, store.ListFilter{
		Search:    query,
		ExcludeID: requesterStoreID,
	})
}

func (s *Service) Request(ctx context.Context, requesterStoreID string, dto CreateRequestDTO) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.TargetStoreID == requesterStoreID {
		return nil, internal.NewValidationFieldError("target_store_id", "a store cannot request itself", internal.ErrCodeValidationFailed)
	}

	target, err := s.stores.Get(ctx, dto.TargetStoreID)
	if err != nil {
		return nil, err
	}
	if !target.IsApproved() {
		return nil, internal.NewValidationFieldError("target_store_id", "target store is not approved", internal.ErrCodeInvalidStoreStatus)
	}

	if _, err := s.repo.FindActive(ctx, requesterStoreID, target.ID); err == nil {
		return nil, internal.ErrDuplicateBranchRequest
	} else if !errors.Is(err, internal.ErrBranchRequestNotFound) {
		s.logger.ErrorContext(ctx, "failed to check active branch requests", "error", err)
		return nil, internal.NewInternalError("failed to check branch requests", err)
	}

	req := NewRequest(requesterStoreID, target.ID, dto.Note)
	if err := s.repo.Create(ctx, ToDataModel(req)); err != nil {
		s.logger.ErrorContext(ctx, "failed to create branch request", "error", err)
		return nil, internal.NewInternalError("failed to create branch request", err)
	}

	s.logger.InfoContext(ctx, "branch requested", "request_id", req.ID, "requester", requesterStoreID, "target", target.ID)
	s.publish(ctx, events.NewBranchEvent(events.EventTypeBranchRequested, req.ID, string(req.Status), req.TargetStoreID))
	return req, nil
}

func (s *Service) Approve(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error) {
	return s.transition(ctx, actorStoreID, id, dto, events.EventTypeBranchDecided, func(r *Request, at time.Time) error {
		return r.Decide(actorStoreID, true, at)
	})
}

func (s *Service) Reject(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error) {
	return s.transition(ctx, actorStoreID, id, dto, events.EventTypeBranchDecided, func(r *Request, at time.Time) error {
		return r.Decide(actorStoreID, false, at)
	})
}

func (s *Service) Revoke(ctx context.Context, actorStoreID, id string, dto TransitionDTO) (*Request, error) {
	return s.transition(ctx, actorStoreID, id, dto, events.EventTypeBranchRevoked, func(r *Request, at time.Time) error {
		return r.Revoke(actorStoreID, at)
	})
}

func (s *Service) transition(ctx context.Context, actorStoreID, id string, dto TransitionDTO, eventType string, apply func(*Request, time.Time) error) (*Request, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrBranchRequestNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load branch request", err)
	}
	req := FromDataModel(row)
	if !req.Involves(actorStoreID) {
		// other stores must not learn the request exists
		return nil, internal.ErrBranchRequestNotFound
	}
	if req.Version != dto.Version {
		return nil, internal.ErrStaleVersion
	}

	fromStatus, fromVersion := req.Status, req.Version
	if err := apply(req, time.Now()); err != nil {
		return nil, err
	}

	changed, err := s.repo.Transition(ctx, ToDataModel(req), string(fromStatus), fromVersion)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update branch request", "request_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update branch request", err)
	}
	if !changed {
		return nil, internal.ErrStaleVersion
	}

	s.logger.InfoContext(ctx, "branch request updated", "request_id", id, "from", fromStatus, "to", req.Status)
	s.publish(ctx, events.NewBranchEvent(eventType, req.ID, string(req.Status), req.Counterpart(actorStoreID)))
	return req, nil
}

func (s *Service) ListIncoming(ctx context.Context, storeID string) ([]*Request, error) {
	rows, err := s.repo.ListByTarget(ctx, storeID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list incoming branch requests", "store_id", storeID, "error", err)
		return nil, internal.NewInternalError("failed to list branch requests", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) ListOutgoing(ctx context.Context, storeID string) ([]*Request, error) {
	return s.listByRequester(ctx, storeID, nil)
}

// ListManaged returns the approved grants where storeID is the requester.
func (s *Service) ListManaged(ctx context.Context, storeID string) ([]*Request, error) {
	approved := StatusApproved
	return s.listByRequester(ctx, storeID, &approved)
}

func (s *Service) listByRequester(ctx context.Context, storeID string, status *Status) ([]*Request, error) {
	rows, err := s.repo.ListByRequester(ctx, storeID, status)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list outgoing branch requests", "store_id", storeID, "error", err)
		return nil, internal.NewInternalError("failed to list branch requests", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish branch event", "event_type", event.EventType(), "error", err)
	}
}
