package branch

import (
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/marketplace/internal"
	branchDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/branch"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusRevoked  Status = "revoked"
)

// IsActive reports whether the request still blocks a new one between the
// same stores.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// Request is a store asking to manage another store as its branch.
type Request struct {
	ID               string     `json:"id"`
	RequesterStoreID string     `json:"requester_store_id"`
	TargetStoreID    string     `json:"target_store_id"`
	Status           Status     `json:"status"`
	Note             string     `json:"note,omitempty"`
	Version          int64      `json:"version"`
	DecidedBy        *string    `json:"decided_by,omitempty"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewRequest(requesterStoreID, targetStoreID, note string) *Request {
	now := time.Now()
	return &Request{
		ID:               uuid.NewString(),
		RequesterStoreID: requesterStoreID,
		TargetStoreID:    targetStoreID,
		Status:           StatusPending,
		Note:             note,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (r *Request) Involves(storeID string) bool {
	return r.RequesterStoreID == storeID || r.TargetStoreID == storeID
}

// Counterpart returns the store on the other side of storeID.
func (r *Request) Counterpart(storeID string) string {
	if r.RequesterStoreID == storeID {
		return r.TargetStoreID
	}
	return r.RequesterStoreID
}

// Decide moves a pending request to approved or rejected. Only the target
// store decides.
func (r *Request) Decide(actorStoreID string, approve bool, at time.Time) error {
	if r.TargetStoreID != actorStoreID {
		return internal.ErrUnauthorizedAccess
	}
	if r.Status != StatusPending {
		return internal.ErrInvalidBranchTransition
	}
	if approve {
		r.Status = StatusApproved
	} else {
		r.Status = StatusRejected
	}
	r.stamp(actorStoreID, at)
	return nil
}

// Revoke ends an approved grant. Either party may revoke.
func (r *Request) Revoke(actorStoreID string, at time.Time) error {
	if !r.Involves(actorStoreID) {
		return internal.ErrUnauthorizedAccess
	}
	if r.Status != StatusApproved {
		return internal.ErrInvalidBranchTransition
	}
	r.Status = StatusRevoked
	r.stamp(actorStoreID, at)
	return nil
}

func (r *Request) stamp(actorStoreID string, at time.Time) {
	r.DecidedBy = &actorStoreID
	r.DecidedAt = &at
	r.UpdatedAt = at
	r.Version++
}

func ToDataModel(r *Request) *branchDatamodel.Request {
	return &branchDatamodel.Request{
		ID:               r.ID,
		RequesterStoreID: r.RequesterStoreID,
		TargetStoreID:    r.TargetStoreID,
		Status:           string(r.Status),
		Note:             r.Note,
		Version:          r.Version,
		DecidedBy:        r.DecidedBy,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModel(r *branchDatamodel.Request) *Request {
	return &Request{
		ID:               r.ID,
		RequesterStoreID: r.RequesterStoreID,
		TargetStoreID:    r.TargetStoreID,
		Status:           Status(r.Status),
		Note:             r.Note,
		Version:          r.Version,
		DecidedBy:        r.DecidedBy,
		DecidedAt:        r.DecidedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func FromDataModels(rows []*branchDatamodel.Request) []*Request {
	out := make([]*Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
