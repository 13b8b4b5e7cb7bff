package analytics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/transport"
)

// Overview is the admin dashboard summary.
type Overview struct {
	UsersByRole           map[string]int `json:"users_by_role"`
	BannedUsers           int            `json:"banned_users"`
	StoresByStatus        map[string]int `json:"stores_by_status"`
	OpenStores            int            `json:"open_stores"`
	CouriersOnline        int            `json:"couriers_online"`
	CouriersActive        int            `json:"couriers_active"`
	PendingBranchRequests int            `json:"pending_branch_requests"`
	NotificationsLastDay  int            `json:"notifications_last_day"`
	GeneratedAt           time.Time      `json:"generated_at"`
}

type RoleCount struct {
	Role  int `db:"role"`
	Count int `db:"count"`
}

type StatusCount struct {
	Status string `db:"status"`
	Count  int    `db:"count"`
}

type RepositoryAPI interface {
	UsersByRole(ctx context.Context) ([]RoleCount, error)
	BannedUsers(ctx context.Context) (int, error)
	StoresByStatus(ctx context.Context) ([]StatusCount, error)
	OpenStores(ctx context.Context) (int, error)
	Couriers(ctx context.Context) (online, active int, err error)
	PendingBranchRequests(ctx context.Context) (int, error)
	NotificationsSince(ctx context.Context, since time.Time) (int, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	now := time.Now()
	o := &Overview{
		UsersByRole:    map[string]int{},
		StoresByStatus: map[string]int{},
		GeneratedAt:    now,
	}

	roles, err := s.repo.UsersByRole(ctx)
	if err != nil {
		return nil, s.fail(ctx, "users by role", err)
	}
	for _, rc := range roles {
		role, err := auth.ParseRole(rc.Role)
		if err != nil {
			s.logger.WarnContext(ctx, "users with unknown role", "role", rc.Role, "count", rc.Count)
			continue
		}
		o.UsersByRole[role.String()] = rc.Count
	}

	if o.BannedUsers, err = s.repo.BannedUsers(ctx); err != nil {
		return nil, s.fail(ctx, "banned users", err)
	}

	statuses, err := s.repo.StoresByStatus(ctx)
	if err != nil {
		return nil, s.fail(ctx, "stores by status", err)
	}
	for _, sc := range statuses {
		o.StoresByStatus[sc.Status] = sc.Count
	}

	if o.OpenStores, err = s.repo.OpenStores(ctx); err != nil {
		return nil, s.fail(ctx, "open stores", err)
	}
	if o.CouriersOnline, o.CouriersActive, err = s.repo.Couriers(ctx); err != nil {
		return nil, s.fail(ctx, "couriers", err)
	}
	if o.PendingBranchRequests, err = s.repo.PendingBranchRequests(ctx); err != nil {
		return nil, s.fail(ctx, "pending branch requests", err)
	}
	if o.NotificationsLastDay, err = s.repo.NotificationsSince(ctx, now.Add(-24*time.Hour)); err != nil {
		return nil, s.fail(ctx, "notifications", err)
	}
	return o, nil
}

func (s *Service) fail(ctx context.Context, what string, err error) error {
	s.logger.ErrorContext(ctx, "failed to compute analytics", "metric", what, "error", err)
	return internal.NewInternalError("failed to compute analytics", err)
}

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Overview(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, o)
}
