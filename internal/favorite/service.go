package favorite

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	favoriteDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/favorite"
	"github.com/frahmantamala/marketplace/internal/store"
)

type RepositoryAPI interface {
	Add(ctx context.Context, f *favoriteDatamodel.FavoriteStore) error
	Remove(ctx context.Context, customerID, storeID string) error
	StoreIDs(ctx context.Context, customerID string) ([]string, error)
}

type StoreDirectory interface {
	Get(ctx context.Context, id string) (*store.Store, error)
	ListApproved(ctx context.Context, filter store.ListFilter) ([]*store.Store, error)
}

type Service struct {
	repo   RepositoryAPI
	stores StoreDirectory
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, stores StoreDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		stores: stores,
		logger: logger,
	}
}

// Add is idempotent. Only approved stores can be favorited.
func (s *Service) Add(ctx context.Context, customerID, storeID string) error {
	st, err := s.stores.Get(ctx, storeID)
	if err != nil {
		return err
	}
	if !st.IsApproved() {
		return internal.ErrStoreNotFound
	}

	err = s.repo.Add(ctx, &favoriteDatamodel.FavoriteStore{
		CustomerID: customerID,
		StoreID:    storeID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to add favorite store", "store_id", storeID, "error", err)
		return internal.NewInternalError("failed to add favorite", err)
	}
	return nil
}

// Remove is idempotent.
func (s *Service) Remove(ctx context.Context, customerID, storeID string) error {
	if err := s.repo.Remove(ctx, customerID, storeID); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove favorite store", "store_id", storeID, "error", err)
		return internal.NewInternalError("failed to remove favorite", err)
	}
	return nil
}

// List returns the favorited stores that are still approved.
func (s *Service) List(ctx context.Context, customerID string) ([]*store.Store, error) {
	ids, err := s.repo.StoreIDs(ctx, customerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list favorite stores", "error", err)
		return nil, internal.NewInternalError("failed to list favorites", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return s.stores.ListApproved(ctx, store.ListFilter{IDs: ids})
}
