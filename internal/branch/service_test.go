package branch_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/branch"
	branchDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/branch"
	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	requests   map[string]*branchDatamodel.Request
	shouldFail bool
	failError  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{requests: make(map[string]*branchDatamodel.Request)}
}

func (m *mockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*branchDatamodel.Request, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.requests[id]
	if !ok {
		return nil, internal.ErrBranchRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepository) ListByRequester(_ context.Context, storeID string, status *branch.Status) ([]*branchDatamodel.Request, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*branchDatamodel.Request
	for _, r := range m.requests {
		if r.RequesterStoreID == storeID && (status == nil || r.Status == string(*status)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepository) ListByTarget(_ context.Context, storeID string) ([]*branchDatamodel.Request, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*branchDatamodel.Request
	for _, r := range m.requests {
		if r.TargetStoreID == storeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepository) FindActive(_ context.Context, requesterStoreID, targetStoreID string) (*branchDatamodel.Request, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, r := range m.requests {
		if r.RequesterStoreID == requesterStoreID && r.TargetStoreID == targetStoreID && branch.Status(r.Status).IsActive() {
			return r, nil
		}
	}
	return nil, internal.ErrBranchRequestNotFound
}

func (m *mockRepository) Create(_ context.Context, r *branchDatamodel.Request) error {
	if m.shouldFail {
		return m.failError
	}
	m.requests[r.ID] = r
	return nil
}

func (m *mockRepository) Transition(_ context.Context, r *branchDatamodel.Request, fromStatus string, fromVersion int64) (bool, error) {
	if m.shouldFail {
		return false, m.failError
	}
	cur, ok := m.requests[r.ID]
	if !ok || cur.Status != fromStatus || cur.Version != fromVersion {
		return false, nil
	}
	m.requests[r.ID] = r
	return true, nil
}

type fakeStores map[string]*store.Store

func (f fakeStores) Get(_ context.Context, id string) (*store.Store, error) {
	s, ok := f[id]
	if !ok {
		return nil, internal.ErrStoreNotFound
	}
	return s, nil
}

func (f fakeStores) ListApproved(_ context.Context, filter store.ListFilter) ([]*store.Store, error) {
	var out []*store.Store
	for _, s := range f {
		if !s.IsApproved() || s.ID == filter.ExcludeID {
			continue
		}
		if !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("Branch Service", func() {
	var (
		ctx       context.Context
		mockRepo  *mockRepository
		publisher *recordingPublisher
		service   *branch.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockRepository()
		publisher = &recordingPublisher{}
		stores := fakeStores{
			"a": {ID: "a", Name: "Alpha Mart", Status: store.StatusApproved},
			"b": {ID: "b", Name: "Beta Mart", Status: store.StatusApproved},
			"c": {ID: "c", Name: "Gamma Shop", Status: store.StatusPending},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = branch.NewService(mockRepo, stores, publisher, logger)
	})

	request := func() *branch.Request {
		req, err := service.Request(ctx, "a", branch.CreateRequestDTO{TargetStoreID: "b"})
		Expect(err).NotTo(HaveOccurred())
		return req
	}

	Describe("SearchStores", func() {
		It("excludes the requester and unapproved stores", func() {
			stores, err := service.SearchStores(ctx, "a", "mart")
			Expect(err).NotTo(HaveOccurred())
			Expect(stores).To(HaveLen(1))
			Expect(stores[0].ID).To(Equal("b"))
		})
	})

	Describe("Request", func() {
		It("creates a pending request and notifies the target", func() {
			req := request()
			Expect(req.Status).To(Equal(branch.StatusPending))
			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].(*events.BranchEvent).NotifyStoreID).To(Equal("b"))
		})

		It("refuses a self request", func() {
			_, err := service.Request(ctx, "a", branch.CreateRequestDTO{TargetStoreID: "a"})
			Expect(err).To(HaveOccurred())
		})

		It("refuses an unapproved target", func() {
			_, err := service.Request(ctx, "a", branch.CreateRequestDTO{TargetStoreID: "c"})
			Expect(err).To(HaveOccurred())
		})

		It("refuses a duplicate while one is active", func() {
			request()
			_, err := service.Request(ctx, "a", branch.CreateRequestDTO{TargetStoreID: "b"})
			Expect(errors.Is(err, internal.ErrDuplicateBranchRequest)).To(BeTrue())
		})

		It("allows a new request after a rejection", func() {
			req := request()
			_, err := service.Reject(ctx, "b", req.ID, branch.TransitionDTO{Version: req.Version})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Request(ctx, "a", branch.CreateRequestDTO{TargetStoreID: "b"})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("transitions", func() {
		It("approves with the current version", func() {
			req := request()
			approved, err := service.Approve(ctx, "b", req.ID, branch.TransitionDTO{Version: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(branch.StatusApproved))
			Expect(approved.Version).To(Equal(int64(2)))

			managed, err := service.ListManaged(ctx, "a")
			Expect(err).NotTo(HaveOccurred())
			Expect(managed).To(HaveLen(1))
		})

		It("returns a conflict for a stale version", func() {
			req := request()
			_, err := service.Approve(ctx, "b", req.ID, branch.TransitionDTO{Version: 1})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Revoke(ctx, "a", req.ID, branch.TransitionDTO{Version: 1})
			Expect(errors.Is(err, internal.ErrStaleVersion)).To(BeTrue())
		})

		It("refuses to decide a request that is no longer pending", func() {
			req := request()
			mockRepo.requests[req.ID].Status = string(branch.StatusRejected)

			_, err := service.Approve(ctx, "b", req.ID, branch.TransitionDTO{Version: 1})
			Expect(errors.Is(err, internal.ErrInvalidBranchTransition)).To(BeTrue())
		})

		It("hides requests from outsiders", func() {
			req := request()
			_, err := service.Approve(ctx, "c", req.ID, branch.TransitionDTO{Version: 1})
			Expect(errors.Is(err, internal.ErrBranchRequestNotFound)).To(BeTrue())
		})

		It("refuses the requester approving its own request", func() {
			req := request()
			_, err := service.Approve(ctx, "a", req.ID, branch.TransitionDTO{Version: 1})
			Expect(errors.Is(err, internal.ErrUnauthorizedAccess)).To(BeTrue())
		})

		It("revokes an approved grant and notifies the other side", func() {
			req := request()
			_, err := service.Approve(ctx, "b", req.ID, branch.TransitionDTO{Version: 1})
			Expect(err).NotTo(HaveOccurred())

			revoked, err := service.Revoke(ctx, "b", req.ID, branch.TransitionDTO{Version: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(revoked.Status).To(Equal(branch.StatusRevoked))

			last := publisher.events[len(publisher.events)-1].(*events.BranchEvent)
			Expect(last.EventType()).To(Equal(events.EventTypeBranchRevoked))
			Expect(last.NotifyStoreID).To(Equal("a"))
		})

		It("requires a version", func() {
			req := request()
			_, err := service.Approve(ctx, "b", req.ID, branch.TransitionDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("listing", func() {
		It("splits incoming and outgoing", func() {
			request()
			incoming, err := service.ListIncoming(ctx, "b")
			Expect(err).NotTo(HaveOccurred())
			Expect(incoming).To(HaveLen(1))

			outgoing, err := service.ListOutgoing(ctx, "b")
			Expect(err).NotTo(HaveOccurred())
			Expect(outgoing).To(BeEmpty())
		})

		It("wraps repository failures", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))
			_, err := service.ListIncoming(ctx, "b")
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})
})
