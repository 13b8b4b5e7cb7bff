package category

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	categoryDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	ListByPartner(ctx context.Context, partnerID string) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, partnerID, id string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	// DeleteTree removes id and all of its descendants atomically and
	// returns the removed ids.
	DeleteTree(ctx context.Context, partnerID, id string) ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) all(ctx context.Context, partnerID string) ([]Category, error) {
	rows, err := s.repo.ListByPartner(ctx, partnerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get categories from repository", "partner_id", partnerID, "error", err)
		return nil, internal.NewInternalError("failed to load categories", err)
	}
	return FromDataModels(rows), nil
}

// List returns the partner's categories in display order.
func (s *Service) List(ctx context.Context, partnerID string) ([]FlatCategory, error) {
	all, err := s.all(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	flat := Flatten(all)
	s.logger.DebugContext(ctx, "retrieved categories", "partner_id", partnerID, "count", len(flat))
	return flat, nil
}

func (s *Service) Get(ctx context.Context, partnerID, id string) (*Category, error) {
	row, err := s.repo.GetByID(ctx, partnerID, id)
	if err != nil {
		if errors.Is(err, internal.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load category", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, partnerID string, dto CreateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.ParentID != nil {
		if _, err := s.Get(ctx, partnerID, *dto.ParentID); err != nil {
			if errors.Is(err, internal.ErrCategoryNotFound) {
				return nil, internal.NewValidationFieldError("parent_id", "parent category does not exist", internal.ErrCodeInvalidParent)
			}
			return nil, err
		}
	}

	c := NewCategory(partnerID, dto.Name, dto.Description, dto.ParentID)
	c.ImageURL = dto.ImageURL
	c.SortOrder = dto.SortOrder

	if err := s.repo.Create(ctx, ToDataModel(c)); err != nil {
		s.logger.ErrorContext(ctx, "failed to create category", "partner_id", partnerID, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.InfoContext(ctx, "category created", "category_id", c.ID, "partner_id", partnerID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, partnerID, id string, dto UpdateCategoryDTO) (*Category, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	all, err := s.all(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	var current *Category
	for i := range all {
		if all[i].ID == id {
			current = &all[i]
			break
		}
	}
	if current == nil {
		return nil, internal.ErrCategoryNotFound
	}

	if dto.ParentID != nil {
		if err := checkParent(all, id, *dto.ParentID); err != nil {
			return nil, err
		}
		if *dto.ParentID == "" {
			current.ParentID = nil
		} else {
			parent := *dto.ParentID
			current.ParentID = &parent
		}
	}
	if dto.Name != nil {
		current.Name = *dto.Name
	}
	if dto.Description != nil {
		current.Description = *dto.Description
	}
	if dto.ImageURL != nil {
		current.ImageURL = *dto.ImageURL
	}
	if dto.SortOrder != nil {
		current.SortOrder = *dto.SortOrder
	}
	if dto.IsActive != nil {
		if *dto.IsActive {
			current.Activate()
		} else {
			current.Deactivate()
		}
	}
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(current)); err != nil {
		if errors.Is(err, internal.ErrCategoryNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to update category", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update category", err)
	}
	return current, nil
}

// checkParent rejects a parent that is the category itself or one of its
// descendants, and a parent outside the partner's tree.
func checkParent(all []Category, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return internal.NewValidationFieldError("parent_id", "a category cannot be its own parent", internal.ErrCodeInvalidParent)
	}
	found := false
	for _, c := range all {
		if c.ID == parentID {
			found = true
			break
		}
	}
	if !found {
		return internal.NewValidationFieldError("parent_id", "parent category does not exist", internal.ErrCodeInvalidParent)
	}
	for _, sub := range FindSubcategories(all, id) {
		if sub.ID == parentID {
			return internal.NewValidationFieldError("parent_id", "a category cannot move under its own subcategory", internal.ErrCodeInvalidParent)
		}
	}
	return nil
}

// Delete removes the category with all of its subcategories.
func (s *Service) Delete(ctx context.Context, partnerID, id string) ([]string, error) {
	deleted, err := s.repo.DeleteTree(ctx, partnerID, id)
	if err != nil {
		if errors.Is(err, internal.ErrCategoryNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to delete category tree", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to delete category", err)
	}

	s.logger.InfoContext(ctx, "category tree deleted", "category_id", id, "partner_id", partnerID, "deleted", len(deleted))
	return deleted, nil
}
