package courier

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/marketplace/internal"
	courierDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/courier"
	"github.com/frahmantamala/marketplace/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type MockRepository struct {
	couriers   map[string]*courierDatamodel.Courier
	shouldFail bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{couriers: make(map[string]*courierDatamodel.Courier)}
}

func (m *MockRepository) SetShouldFail(fail bool) {
	m.shouldFail = fail
}

func (m *MockRepository) List(_ context.Context, filter ListFilter) ([]*courierDatamodel.Courier, error) {
	if m.shouldFail {
		return nil, errors.New("mock error")
	}
	var out []*courierDatamodel.Courier
	for _, c := range m.couriers {
		if filter.Online != nil && c.IsOnline != *filter.Online {
			continue
		}
		if filter.Active != nil && c.IsActive != *filter.Active {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MockRepository) GetByID(_ context.Context, id string) (*courierDatamodel.Courier, error) {
	if m.shouldFail {
		return nil, errors.New("mock error")
	}
	c, ok := m.couriers[id]
	if !ok {
		return nil, internal.ErrCourierNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockRepository) GetByUserID(_ context.Context, userID string) (*courierDatamodel.Courier, error) {
	for _, c := range m.couriers {
		if c.UserID != nil && *c.UserID == userID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, internal.ErrCourierNotFound
}

func (m *MockRepository) Create(_ context.Context, c *courierDatamodel.Courier) error {
	if m.shouldFail {
		return errors.New("mock error")
	}
	m.couriers[c.ID] = c
	return nil
}

func (m *MockRepository) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	if m.shouldFail {
		return errors.New("mock error")
	}
	c, ok := m.couriers[id]
	if !ok {
		return internal.ErrCourierNotFound
	}
	for k, v := range fields {
		switch k {
		case "is_online":
			c.IsOnline = v.(bool)
		case "is_active":
			c.IsActive = v.(bool)
		case "banned":
			c.Banned = v.(bool)
		case "working_hours_start":
			c.WorkingHoursStart = optionalString(v)
		case "working_hours_end":
			c.WorkingHoursEnd = optionalString(v)
		}
	}
	return nil
}

func optionalString(v interface{}) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

var _ = Describe("Courier Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *Service
		now      time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		jakarta := time.FixedZone("WIB", 7*60*60)
		service = NewService(mockRepo, logger.Discard(), jakarta)
		// 03:30 UTC is 10:30 in Jakarta
		now = time.Date(2024, 3, 14, 3, 30, 0, 0, time.UTC)
		service.now = func() time.Time { return now }
	})

	create := func(wh *WorkingHours) *CourierView {
		userID := "user-1"
		c, err := service.Create(ctx, CreateCourierDTO{Name: "Budi", UserID: &userID, WorkingHours: wh})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("Create", func() {
		It("should create an active courier", func() {
			c := create(nil)
			Expect(c.ID).NotTo(BeEmpty())
			Expect(c.IsActive).To(BeTrue())
			Expect(c.ShouldBeActive).To(BeTrue())
		})

		It("should reject a malformed window", func() {
			_, err := service.Create(ctx, CreateCourierDTO{Name: "Budi", WorkingHours: &WorkingHours{Start: "9am", End: "18:00"}})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should require a name", func() {
			_, err := service.Create(ctx, CreateCourierDTO{Name: "   "})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should evaluate working hours in the configured location", func() {
			create(&WorkingHours{Start: "09:00", End: "18:00"})

			views, err := service.List(ctx, ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(1))
			Expect(views[0].ShouldBeActive).To(BeTrue())

			now = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
			views, err = service.List(ctx, ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(views[0].ShouldBeActive).To(BeFalse())
		})

		It("should surface repository failures as internal errors", func() {
			mockRepo.SetShouldFail(true)
			_, err := service.List(ctx, ListFilter{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("UpdateStatus", func() {
		It("should force a banned courier offline", func() {
			c := create(nil)
			online := true
			_, err := service.UpdateStatus(ctx, c.ID, UpdateStatusDTO{IsOnline: &online})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.SetBanned(ctx, c.ID, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Banned).To(BeTrue())
			Expect(updated.IsOnline).To(BeFalse())
			Expect(updated.ShouldBeActive).To(BeFalse())
		})

		It("should require at least one flag", func() {
			c := create(nil)
			_, err := service.UpdateStatus(ctx, c.ID, UpdateStatusDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should report unknown couriers", func() {
			_, err := service.SetActive(ctx, "missing", false)
			Expect(errors.Is(err, internal.ErrCourierNotFound)).To(BeTrue())
		})
	})

	Describe("SetWorkingHours", func() {
		It("should set and clear the window", func() {
			c := create(nil)

			updated, err := service.SetWorkingHours(ctx, c.ID, WorkingHoursDTO{Start: "22:00", End: "06:00"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.WorkingHours).To(Equal(&WorkingHours{Start: "22:00", End: "06:00"}))
			Expect(updated.ShouldBeActive).To(BeFalse())

			cleared, err := service.SetWorkingHours(ctx, c.ID, WorkingHoursDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(cleared.WorkingHours).To(BeNil())
			Expect(cleared.ShouldBeActive).To(BeTrue())
		})

		It("should reject a half window", func() {
			c := create(nil)
			_, err := service.SetWorkingHours(ctx, c.ID, WorkingHoursDTO{Start: "09:00"})
			Expect(err).To(HaveOccurred())
		})

		It("should reject out of range times", func() {
			c := create(nil)
			_, err := service.SetWorkingHours(ctx, c.ID, WorkingHoursDTO{Start: "09:00", End: "24:00"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SetMyOnline", func() {
		It("should toggle the caller's courier", func() {
			create(nil)
			c, err := service.SetMyOnline(ctx, "user-1", true)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.IsOnline).To(BeTrue())
		})

		It("should keep banned couriers offline", func() {
			c := create(nil)
			_, err := service.SetBanned(ctx, c.ID, true)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.SetMyOnline(ctx, "user-1", true)
			Expect(errors.Is(err, internal.ErrUserBanned)).To(BeTrue())
		})

		It("should report callers without a courier profile", func() {
			_, err := service.SetMyOnline(ctx, "nobody", true)
			Expect(errors.Is(err, internal.ErrCourierNotFound)).To(BeTrue())
		})
	})
})
