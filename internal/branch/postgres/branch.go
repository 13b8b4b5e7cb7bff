package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/branch"
	branchDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/branch"
	"gorm.io/gorm"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) branch.RepositoryAPI {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) GetByID(ctx context.Context, id string) (*branchDatamodel.Request, error) {
	var req branchDatamodel.Request
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBranchRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *BranchRepository) ListByRequester(ctx context.Context, storeID string, status *branch.Status) ([]*branchDatamodel.Request, error) {
	q := r.db.WithContext(ctx).Where("requester_store_id = ?", storeID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	var reqs []*branchDatamodel.Request
	err := q.Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *BranchRepository) ListByTarget(ctx context.Context, storeID string) ([]*branchDatamodel.Request, error) {
	var reqs []*branchDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("target_store_id = ?", storeID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *BranchRepository) FindActive(ctx context.Context, requesterStoreID, targetStoreID string) (*branchDatamodel.Request, error) {
	var req branchDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("requester_store_id = ? AND target_store_id = ?", requesterStoreID, targetStoreID).
		Where("status IN ?", []string{string(branch.StatusPending), string(branch.StatusApproved)}).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBranchRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *BranchRepository) Create(ctx context.Context, req *branchDatamodel.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *BranchRepository) Transition(ctx context.Context, req *branchDatamodel.Request, fromStatus string, fromVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&branchDatamodel.Request{}).
		Where("id = ? AND status = ? AND version = ?", req.ID, fromStatus, fromVersion).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"version":    req.Version,
			"decided_by": req.DecidedBy,
			"decided_at": req.DecidedAt,
			"updated_at": req.UpdatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
