package category_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/category"
	categoryDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/category"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories map[string]*categoryDatamodel.Category
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories: make(map[string]*categoryDatamodel.Category),
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) ListByPartner(_ context.Context, partnerID string) ([]*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.Category
	for _, cat := range m.categories {
		if cat.PartnerID == partnerID {
			cp := *cat
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockRepository) GetByID(_ context.Context, partnerID, id string) (*categoryDatamodel.Category, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	cat, ok := m.categories[id]
	if !ok || cat.PartnerID != partnerID {
		return nil, internal.ErrCategoryNotFound
	}
	cp := *cat
	return &cp, nil
}

func (m *MockRepository) Create(_ context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) Update(_ context.Context, cat *categoryDatamodel.Category) error {
	if m.shouldFail {
		return m.failError
	}
	if _, ok := m.categories[cat.ID]; !ok {
		return internal.ErrCategoryNotFound
	}
	m.categories[cat.ID] = cat
	return nil
}

func (m *MockRepository) DeleteTree(ctx context.Context, partnerID, id string) ([]string, error) {
	rows, err := m.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if _, ok := m.categories[id]; !ok {
		return nil, internal.ErrCategoryNotFound
	}
	deleted := category.SubtreeIDs(category.FromDataModels(rows), id)
	for _, d := range deleted {
		delete(m.categories, d)
	}
	return deleted, nil
}

var _ = Describe("Category Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *category.Service
		slogger  *slog.Logger
	)

	const partner = "store-1"

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mockRepo = NewMockRepository()
		service = category.NewService(mockRepo, slogger)
	})

	create := func(name string, parent *string) *category.Category {
		c, err := service.Create(ctx, partner, category.CreateCategoryDTO{Name: name, ParentID: parent})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("Create", func() {
		It("should create a root category", func() {
			c := create("Food", nil)
			Expect(c.ID).NotTo(BeEmpty())
			Expect(c.PartnerID).To(Equal(partner))
			Expect(c.IsRoot()).To(BeTrue())
			Expect(c.IsActive).To(BeTrue())
		})

		It("should treat an empty parent as root", func() {
			c := create("Food", ptr(""))
			Expect(c.IsRoot()).To(BeTrue())
		})

		It("should reject a parent owned by another partner", func() {
			other, err := service.Create(ctx, "store-2", category.CreateCategoryDTO{Name: "Other"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, partner, category.CreateCategoryDTO{Name: "Child", ParentID: &other.ID})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should require a name", func() {
			_, err := service.Create(ctx, partner, category.CreateCategoryDTO{Name: "  "})
			Expect(err).To(HaveOccurred())
		})

		It("should wrap repository errors", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))
			_, err := service.Create(ctx, partner, category.CreateCategoryDTO{Name: "Food"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("Update", func() {
		It("should rename and reorder", func() {
			c := create("Food", nil)
			name, order := "Meals", 3
			updated, err := service.Update(ctx, partner, c.ID, category.UpdateCategoryDTO{Name: &name, SortOrder: &order})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Meals"))
			Expect(updated.SortOrder).To(Equal(3))
		})

		It("should reject self parenting", func() {
			c := create("Food", nil)
			_, err := service.Update(ctx, partner, c.ID, category.UpdateCategoryDTO{ParentID: &c.ID})
			Expect(err).To(HaveOccurred())
		})

		It("should reject moving under a descendant", func() {
			root := create("Food", nil)
			child := create("Drinks", &root.ID)
			grandchild := create("Tea", &child.ID)

			_, err := service.Update(ctx, partner, root.ID, category.UpdateCategoryDTO{ParentID: &grandchild.ID})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should move a category to the root", func() {
			root := create("Food", nil)
			child := create("Drinks", &root.ID)

			updated, err := service.Update(ctx, partner, child.ID, category.UpdateCategoryDTO{ParentID: ptr("")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.IsRoot()).To(BeTrue())
		})

		It("should report unknown categories", func() {
			name := "x"
			_, err := service.Update(ctx, partner, "missing", category.UpdateCategoryDTO{Name: &name})
			Expect(errors.Is(err, internal.ErrCategoryNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should remove all transitive children", func() {
			root := create("Food", nil)
			child := create("Drinks", &root.ID)
			grandchild := create("Tea", &child.ID)
			sibling := create("Clothes", nil)

			deleted, err := service.Delete(ctx, partner, root.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(ConsistOf(root.ID, child.ID, grandchild.ID))

			remaining, err := service.List(ctx, partner)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].ID).To(Equal(sibling.ID))
		})

		It("should report unknown categories", func() {
			_, err := service.Delete(ctx, partner, "missing")
			Expect(errors.Is(err, internal.ErrCategoryNotFound)).To(BeTrue())
		})
	})
})
