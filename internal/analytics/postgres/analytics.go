package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/marketplace/internal/analytics"
	"github.com/jmoiron/sqlx"
)

// AnalyticsRepository runs read-only aggregate queries over the raw pool.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) analytics.RepositoryAPI {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) UsersByRole(ctx context.Context) ([]analytics.RoleCount, error) {
	var out []analytics.RoleCount
	err := r.db.SelectContext(ctx, &out, `SELECT role, COUNT(*) AS count FROM users GROUP BY role ORDER BY role`)
	return out, err
}

func (r *AnalyticsRepository) BannedUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE banned = ?`, true)
}

func (r *AnalyticsRepository) StoresByStatus(ctx context.Context) ([]analytics.StatusCount, error) {
	var out []analytics.StatusCount
	err := r.db.SelectContext(ctx, &out, `SELECT status, COUNT(*) AS count FROM stores GROUP BY status ORDER BY status`)
	return out, err
}

func (r *AnalyticsRepository) OpenStores(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM stores WHERE is_open = ?`, true)
}

func (r *AnalyticsRepository) Couriers(ctx context.Context) (int, int, error) {
	var row struct {
		Online int `db:"online"`
		Active int `db:"active"`
	}
	query := r.db.Rebind(`SELECT
		COALESCE(SUM(CASE WHEN is_online = ? THEN 1 ELSE 0 END), 0) AS online,
		COALESCE(SUM(CASE WHEN is_active = ? AND banned = ? THEN 1 ELSE 0 END), 0) AS active
		FROM couriers`)
	if err := r.db.GetContext(ctx, &row, query, true, true, false); err != nil {
		return 0, 0, err
	}
	return row.Online, row.Active, nil
}

func (r *AnalyticsRepository) PendingBranchRequests(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM branch_requests WHERE status = ?`, "pending")
}

func (r *AnalyticsRepository) NotificationsSince(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM notifications WHERE created_at >= ?`, since)
}

func (r *AnalyticsRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...)
	return n, err
}
