package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	storeDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/store"
	"github.com/frahmantamala/marketplace/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*storeDatamodel.Store, error)
	GetByID(ctx context.Context, id string) (*storeDatamodel.Store, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*storeDatamodel.Store, error)
	Create(ctx context.Context, s *storeDatamodel.Store) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// UpdateIfStatus applies fields only while the store is still in status
	// and reports whether a row changed.
	UpdateIfStatus(ctx context.Context, id string, status string, fields map[string]interface{}) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Register(ctx context.Context, ownerID string, dto RegisterStoreDTO) (*Store, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByOwnerID(ctx, ownerID); err == nil {
		return nil, internal.ErrStoreAlreadyExists
	} else if !errors.Is(err, internal.ErrStoreNotFound) {
		return nil, internal.NewInternalError("failed to check existing store", err)
	}

	st := NewStore(ownerID, dto.Name, dto.Description)
	st.Phone = dto.Phone
	st.Address = dto.Address
	st.ServiceArea = dto.ServiceArea

	if err := s.repo.Create(ctx, ToDataModel(st)); err != nil {
		if errors.Is(err, internal.ErrStoreAlreadyExists) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to create store", "owner_id", ownerID, "error", err)
		return nil, internal.NewInternalError("failed to create store", err)
	}

	s.logger.InfoContext(ctx, "store registered", "store_id", st.ID, "owner_id", ownerID)
	return st, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Store, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, internal.NewValidationFieldError("status", "status must be one of: pending, approved, rejected", internal.ErrCodeInvalidStoreStatus)
	}
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []*Store{}, nil
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list stores", "error", err)
		return nil, internal.NewInternalError("failed to list stores", err)
	}

	stores := make([]*Store, 0, len(rows))
	for _, row := range rows {
		stores = append(stores, FromDataModel(row))
	}
	return stores, nil
}

// ListApproved is the storefront listing.
func (s *Service) ListApproved(ctx context.Context, filter ListFilter) ([]*Store, error) {
	approved := StatusApproved
	filter.Status = &approved
	return s.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Store, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrStoreNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load store", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) GetByOwner(ctx context.Context, ownerID string) (*Store, error) {
	row, err := s.repo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, internal.ErrStoreNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load store", err)
	}
	return FromDataModel(row), nil
}

// PartnerIDForOwner resolves the store that scopes an owner's catalog.
func (s *Service) PartnerIDForOwner(ctx context.Context, ownerID string) (string, error) {
	st, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return st.ID, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*Store, error) {
	return s.review(ctx, id, true, "")
}

func (s *Service) Reject(ctx context.Context, id string, dto RejectStoreDTO) (*Store, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.review(ctx, id, false, dto.Reason)
}

func (s *Service) review(ctx context.Context, id string, approve bool, reason string) (*Store, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.Review(approve, reason, time.Now()) {
		return nil, internal.ErrInvalidStoreStatus
	}

	changed, err := s.repo.UpdateIfStatus(ctx, id, string(StatusPending), map[string]interface{}{
		"status":        string(st.Status),
		"reject_reason": st.RejectReason,
		"is_open":       st.IsOpen,
		"reviewed_at":   st.ReviewedAt,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to review store", "store_id", id, "error", err)
		return nil, internal.NewInternalError("failed to review store", err)
	}
	if !changed {
		// reviewed concurrently by someone else
		return nil, internal.ErrInvalidStoreStatus
	}

	s.logger.InfoContext(ctx, "store reviewed", "store_id", id, "status", st.Status)
	if s.publisher != nil {
		event := events.NewStoreReviewedEvent(approve, st.ID, st.OwnerID, st.Name, st.RejectReason)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to publish store review event", "store_id", id, "error", err)
		}
	}
	return st, nil
}

func (s *Service) GetSettings(ctx context.Context, ownerID string) (*Store, error) {
	return s.GetByOwner(ctx, ownerID)
}

// UpdateSettings applies the partner's partial update. Only approved stores
// may open.
func (s *Service) UpdateSettings(ctx context.Context, ownerID string, dto UpdateSettingsDTO) (*Store, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	st, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if dto.IsOpen != nil {
		if *dto.IsOpen && !st.IsApproved() {
			return nil, internal.NewValidationFieldError("is_open", "only approved stores can open", internal.ErrCodeInvalidStoreStatus)
		}
		fields["is_open"] = *dto.IsOpen
	}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Description != nil {
		fields["description"] = *dto.Description
	}
	if dto.Phone != nil {
		fields["phone"] = *dto.Phone
	}
	if dto.Address != nil {
		fields["address"] = *dto.Address
	}

	if err := s.repo.UpdateFields(ctx, st.ID, fields); err != nil {
		if errors.Is(err, internal.ErrStoreNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to update store settings", "store_id", st.ID, "error", err)
		return nil, internal.NewInternalError("failed to update store settings", err)
	}

	s.logger.InfoContext(ctx, "store settings updated", "store_id", st.ID, "fields", len(fields))
	return s.Get(ctx, st.ID)
}
