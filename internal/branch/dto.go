package branch

import (
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/core/common/validation"
	"github.com/frahmantamala/marketplace/internal/store"
)

type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case "", DirectionIncoming:
		return DirectionIncoming, nil
	case DirectionOutgoing:
		return DirectionOutgoing, nil
	}
	return "", internal.NewValidationFieldError("direction", "direction must be one of: incoming, outgoing", internal.ErrCodeValidationFailed)
}

type CreateRequestDTO struct {
	TargetStoreID string `json:"target_store_id"`
	Note          string `json:"note"`
}

func (d *CreateRequestDTO) Validate() error {
	d.TargetStoreID = strings.TrimSpace(d.TargetStoreID)
	d.Note = strings.TrimSpace(d.Note)
	v := validation.NewValidator()
	v.Field("target_store_id", d.TargetStoreID).Required()
	v.Field("note", d.Note).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// TransitionDTO carries the version the caller last saw.
type TransitionDTO struct {
	Version int64 `json:"version"`
}

func (d TransitionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("version", d.Version).MinInt(1, internal.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type RequestsResponse struct {
	Requests []*Request `json:"requests"`
}

type StoresResponse struct {
	Stores []*store.Store `json:"stores"`
}
