package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/analytics"
	"github.com/frahmantamala/marketplace/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAnalytics(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Analytics Module Suite")
}

type stubRepository struct {
	roles    []analytics.RoleCount
	statuses []analytics.StatusCount
	failOn   string
	since    time.Time
}

func (r *stubRepository) fail(name string) error {
	if r.failOn == name {
		return errors.New("db down")
	}
	return nil
}

func (r *stubRepository) UsersByRole(context.Context) ([]analytics.RoleCount, error) {
	return r.roles, r.fail("roles")
}

func (r *stubRepository) BannedUsers(context.Context) (int, error) {
	return 2, r.fail("banned")
}

func (r *stubRepository) StoresByStatus(context.Context) ([]analytics.StatusCount, error) {
	return r.statuses, r.fail("stores")
}

func (r *stubRepository) OpenStores(context.Context) (int, error) {
	return 3, nil
}

func (r *stubRepository) Couriers(context.Context) (int, int, error) {
	return 4, 5, r.fail("couriers")
}

func (r *stubRepository) PendingBranchRequests(context.Context) (int, error) {
	return 6, nil
}

func (r *stubRepository) NotificationsSince(_ context.Context, since time.Time) (int, error) {
	r.since = since
	return 7, nil
}

var _ = Describe("Analytics Service", func() {
	var repo *stubRepository

	BeforeEach(func() {
		repo = &stubRepository{
			roles: []analytics.RoleCount{
				{Role: 0, Count: 1},
				{Role: 2, Count: 10},
				{Role: 4, Count: 9},
			},
			statuses: []analytics.StatusCount{{Status: "approved", Count: 8}},
		}
	})

	It("assembles the overview with role names", func() {
		svc := analytics.NewService(repo, logger.Discard())

		o, err := svc.Overview(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(o.UsersByRole).To(Equal(map[string]int{"admin": 1, "customer": 10}))
		Expect(o.BannedUsers).To(Equal(2))
		Expect(o.StoresByStatus).To(HaveKeyWithValue("approved", 8))
		Expect(o.OpenStores).To(Equal(3))
		Expect(o.CouriersOnline).To(Equal(4))
		Expect(o.CouriersActive).To(Equal(5))
		Expect(o.PendingBranchRequests).To(Equal(6))
		Expect(o.NotificationsLastDay).To(Equal(7))
		Expect(o.GeneratedAt.Sub(repo.since)).To(Equal(24 * time.Hour))
	})

	It("wraps repository failures as internal errors", func() {
		repo.failOn = "couriers"
		svc := analytics.NewService(repo, logger.Discard())

		_, err := svc.Overview(context.Background())
		var appErr *internal.AppError
		Expect(errors.As(err, &appErr)).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
	})
})
