package courier

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
)

type CourierView struct {
	Courier
	ShouldBeActive bool `json:"should_be_active"`
}

type ListFilter struct {
	Online *bool
	Active *bool
}

type CreateCourierDTO struct {
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	UserID       *string       `json:"user_id,omitempty"`
	WorkingHours *WorkingHours `json:"working_hours,omitempty"`
}

func (d *CreateCourierDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("phone", d.Phone).MaxLength(32)
	if d.WorkingHours != nil {
		v.Field("working_hours.start", d.WorkingHours.Start).Required().ClockTime()
		v.Field("working_hours.end", d.WorkingHours.End).Required().ClockTime()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateStatusDTO changes only the flags that are present.
type UpdateStatusDTO struct {
	IsOnline *bool `json:"is_online,omitempty"`
	IsActive *bool `json:"is_active,omitempty"`
	Banned   *bool `json:"banned,omitempty"`
}

func (d UpdateStatusDTO) Validate() error {
	if d.IsOnline == nil && d.IsActive == nil && d.Banned == nil {
		return internal.NewValidationError("at least one of is_online, is_active, banned is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// WorkingHoursDTO with both fields empty clears the window.
type WorkingHoursDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (d WorkingHoursDTO) Validate() error {
	if d.Start == "" && d.End == "" {
		return nil
	}
	if err := validation.ValidateClockRange(d.Start, d.End); err != nil {
		return err
	}
	return nil
}

func (d WorkingHoursDTO) ToWorkingHours() *WorkingHours {
	if d.Start == "" && d.End == "" {
		return nil
	}
	return &WorkingHours{Start: d.Start, End: d.End}
}

type SetOnlineDTO struct {
	IsOnline bool `json:"is_online"`
}

type CouriersResponse struct {
	Couriers []CourierView `json:"couriers"`
}
