package store

import (
	"time"

	"github.com/google/uuid"

	storeDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/store"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Store struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	ServiceArea  string     `json:"service_area,omitempty"`
	Status       Status     `json:"status"`
	RejectReason string     `json:"reject_reason,omitempty"`
	IsOpen       bool       `json:"is_open"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewStore(ownerID, name, description string) *Store {
	now := time.Now()
	return &Store{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Store) IsApproved() bool {
	return s.Status == StatusApproved
}

// Review moves a pending store to approved or rejected.
func (s *Store) Review(approve bool, reason string, at time.Time) bool {
	if s.Status != StatusPending {
		return false
	}
	if approve {
		s.Status = StatusApproved
		s.RejectReason = ""
	} else {
		s.Status = StatusRejected
		s.RejectReason = reason
		s.IsOpen = false
	}
	s.ReviewedAt = &at
	s.UpdatedAt = at
	return true
}

func ToDataModel(s *Store) *storeDatamodel.Store {
	return &storeDatamodel.Store{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Description:  s.Description,
		Phone:        s.Phone,
		Address:      s.Address,
		ServiceArea:  s.ServiceArea,
		Status:       string(s.Status),
		RejectReason: s.RejectReason,
		IsOpen:       s.IsOpen,
		ReviewedAt:   s.ReviewedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func FromDataModel(s *storeDatamodel.Store) *Store {
	return &Store{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Description:  s.Description,
		Phone:        s.Phone,
		Address:      s.Address,
		ServiceArea:  s.ServiceArea,
		Status:       Status(s.Status),
		RejectReason: s.RejectReason,
		IsOpen:       s.IsOpen,
		ReviewedAt:   s.ReviewedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
