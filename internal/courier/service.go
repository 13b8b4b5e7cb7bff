package courier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	courierDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/courier"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*courierDatamodel.Courier, error)
	GetByID(ctx context.Context, id string) (*courierDatamodel.Courier, error)
	GetByUserID(ctx context.Context, userID string) (*courierDatamodel.Courier, error)
	Create(ctx context.Context, c *courierDatamodel.Courier) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

type Service struct {
	repo     RepositoryAPI
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
}

// NewService evaluates working hours in loc; nil means UTC.
func NewService(repo RepositoryAPI, logger *slog.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		logger:   logger,
		location: loc,
		now:      time.Now,
	}
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]CourierView, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list couriers", "error", err)
		return nil, internal.NewInternalError("failed to list couriers", err)
	}

	now := s.clock()
	views := make([]CourierView, 0, len(rows))
	for _, row := range rows {
		views = append(views, FromDataModel(row).View(now))
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, id string) (*CourierView, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := c.View(s.clock())
	return &view, nil
}

func (s *Service) Create(ctx context.Context, dto CreateCourierDTO) (*CourierView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := NewCourier(dto.Name, dto.Phone, dto.UserID)
	c.WorkingHours = dto.WorkingHours
	if err := s.repo.Create(ctx, ToDataModel(c)); err != nil {
		s.logger.ErrorContext(ctx, "failed to create courier", "error", err)
		return nil, internal.NewInternalError("failed to create courier", err)
	}

	s.logger.InfoContext(ctx, "courier created", "courier_id", c.ID)
	view := c.View(s.clock())
	return &view, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateStatusDTO) (*CourierView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if dto.IsOnline != nil {
		fields["is_online"] = *dto.IsOnline
	}
	if dto.IsActive != nil {
		fields["is_active"] = *dto.IsActive
	}
	if dto.Banned != nil {
		fields["banned"] = *dto.Banned
		// a banned courier cannot stay online
		if *dto.Banned {
			fields["is_online"] = false
		}
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "courier status updated", "courier_id", id, "fields", len(fields))
	return s.Get(ctx, id)
}

func (s *Service) SetOnline(ctx context.Context, id string, online bool) (*CourierView, error) {
	return s.UpdateStatus(ctx, id, UpdateStatusDTO{IsOnline: &online})
}

func (s *Service) SetActive(ctx context.Context, id string, active bool) (*CourierView, error) {
	return s.UpdateStatus(ctx, id, UpdateStatusDTO{IsActive: &active})
}

func (s *Service) SetBanned(ctx context.Context, id string, banned bool) (*CourierView, error) {
	return s.UpdateStatus(ctx, id, UpdateStatusDTO{Banned: &banned})
}

func (s *Service) SetWorkingHours(ctx context.Context, id string, dto WorkingHoursDTO) (*CourierView, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"working_hours_start": nil,
		"working_hours_end":   nil,
	}
	if wh := dto.ToWorkingHours(); wh != nil {
		fields["working_hours_start"] = wh.Start
		fields["working_hours_end"] = wh.End
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetMyOnline lets a courier toggle its own availability. Banned couriers
// cannot come online.
func (s *Service) SetMyOnline(ctx context.Context, userID string, online bool) (*CourierView, error) {
	row, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrCourierNotFound) {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to load courier", err)
	}
	if online && row.Banned {
		return nil, internal.ErrUserBanned
	}
	return s.SetOnline(ctx, row.ID, online)
}

func (s *Service) load(ctx context.Context, id string) (*Courier, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrCourierNotFound) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to load courier", "courier_id", id, "error", err)
		return nil, internal.NewInternalError("failed to load courier", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, internal.ErrCourierNotFound) {
			return err
		}
		s.logger.ErrorContext(ctx, "failed to update courier", "courier_id", id, "error", err)
		return internal.NewInternalError("failed to update courier", fmt.Errorf("update courier %s: %w", id, err))
	}
	return nil
}
