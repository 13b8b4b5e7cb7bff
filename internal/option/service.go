package option

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	optionDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/option"
)

type RepositoryAPI interface {
	ListByPartner(ctx context.Context, partnerID string) ([]*optionDatamodel.Option, error)
	GetByID(ctx context.Context, partnerID, id string) (*optionDatamodel.Option, error)
	Create(ctx context.Context, o *optionDatamodel.Option) error
	Update(ctx context.Context, o *optionDatamodel.Option) error
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

func (s *Service) all(ctx context.Context, partnerID string) ([]Option, error) {
	rows, err := s.repo.ListByPartner(ctx, partnerID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list options", "partner_id", partnerID, "error", err)
		return nil, internal.NewInternalError("failed to load options", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) List(ctx context.Context, partnerID string) ([]Group, error) {
	all, err := s.all(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return GroupByType(all), nil
}

func (s *Service) Create(ctx context.Context, partnerID string, dto CreateOptionDTO) (*Option, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, partnerID, *dto.ParentID)
		if err != nil {
			if errors.Is(err, internal.ErrOptionNotFound) {
				return nil, internal.NewValidationFieldError("parent_id", "parent option does not exist", internal.ErrCodeInvalidParent)
			}
			return nil, internal.NewInternalError("failed to load parent option", err)
		}
		if Type(parent.Type) != dto.Type {
			return nil, internal.NewValidationFieldError("parent_id", "parent option must have the same type", internal.ErrCodeInvalidParent)
		}
	}

	o := NewOption(partnerID, dto.Type, dto.Name, dto.Value, dto.ParentID)
	if err := s.repo.Create(ctx, ToDataModel(o)); err != nil {
		s.logger.ErrorContext(ctx, "failed to create option", "partner_id", partnerID, "error", err)
		return nil, internal.NewInternalError("failed to create option", err)
	}

	s.logger.InfoContext(ctx, "option created", "option_id", o.ID, "type", o.Type)
	return o, nil
}

func (s *Service) Update(ctx context.Context, partnerID, id string, dto UpdateOptionDTO) (*Option, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	all, err := s.all(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Option, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	current, ok := byID[id]
	if !ok {
		return nil, internal.ErrOptionNotFound
	}

	if dto.ParentID != nil {
		switch parentID := *dto.ParentID; {
		case parentID == "":
			current.ParentID = nil
		case parentID == id:
			return nil, internal.NewValidationFieldError("parent_id", "an option cannot be its own parent", internal.ErrCodeInvalidParent)
		default:
			parent, ok := byID[parentID]
			if !ok {
				return nil, internal.NewValidationFieldError("parent_id", "parent option does not exist", internal.ErrCodeInvalidParent)
			}
			if parent.Type != current.Type {
				return nil, internal.NewValidationFieldError("parent_id", "parent option must have the same type", internal.ErrCodeInvalidParent)
			}
			for _, d := range Descendants(all, id) {
				if d.ID == parentID {
					return nil, internal.NewValidationFieldError("parent_id", "an option cannot move under its own child", internal.ErrCodeInvalidParent)
				}
			}
			current.ParentID = &parentID
		}
	}
	if dto.Name != nil {
		current.Name = *dto.Name
	}
	if dto.Value != nil {
		current.Value = *dto.Value
	}
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(current)); err != nil {
		if errors.Is(err, internal.ErrOptionNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to update option", "option_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update option", err)
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, partnerID, id string) ([]string, error) {
	deleted, err := s.repo.DeleteTree(ctx, partnerID, id)
	if err != nil {
		if errors.Is(err, internal.ErrOptionNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to delete option tree", "option_id", id, "error", err)
		return nil, internal.NewInternalError("failed to delete option", err)
	}
	s.logger.InfoContext(ctx, "option tree deleted", "option_id", id, "deleted", len(deleted))
	return deleted, nil
}
