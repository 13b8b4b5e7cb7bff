package option_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/marketplace/internal"
	optionDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/option"
	"github.com/frahmantamala/marketplace/internal/option"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepository struct {
	options    map[string]*optionDatamodel.Option
	shouldFail bool
	failError  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{options: make(map[string]*optionDatamodel.Option)}
}

func (m *mockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *mockRepository) ListByPartner(_ context.Context, partnerID string) ([]*optionDatamodel.Option, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*optionDatamodel.Option
	for _, o := range m.options {
		if o.PartnerID == partnerID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepository) GetByID(_ context.Context, partnerID, id string) (*optionDatamodel.Option, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	o, ok := m.options[id]
	if !ok || o.PartnerID != partnerID {
		return nil, internal.ErrOptionNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockRepository) Create(_ context.Context, o *optionDatamodel.Option) error {
	if m.shouldFail {
		return m.failError
	}
	m.options[o.ID] = o
	return nil
}

func (m *mockRepository) Update(_ context.Context, o *optionDatamodel.Option) error {
	if m.shouldFail {
		return m.failError
	}
	if _, ok := m.options[o.ID]; !ok {
		return internal.ErrOptionNotFound
	}
	m.options[o.ID] = o
	return nil
}

func (m *mockRepository) DeleteTree(ctx context.Context, partnerID, id string) ([]string, error) {
	rows, err := m.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if o, ok := m.options[id]; !ok || o.PartnerID != partnerID {
		return nil, internal.ErrOptionNotFound
	}
	deleted := option.SubtreeIDs(option.FromDataModels(rows), id)
	for _, d := range deleted {
		delete(m.options, d)
	}
	return deleted, nil
}

var _ = Describe("Option Service", func() {
	var (
		ctx      context.Context
		mockRepo *mockRepository
		service  *option.Service
	)

	const partner = "store-1"

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockRepository()
		service = option.NewService(mockRepo, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	create := func(t option.Type, name string, parent *string) *option.Option {
		o, err := service.Create(ctx, partner, option.CreateOptionDTO{Type: t, Name: name, ParentID: parent})
		Expect(err).NotTo(HaveOccurred())
		return o
	}

	Describe("Create", func() {
		It("creates a root option", func() {
			o := create(option.TypeColor, "Red", nil)
			Expect(o.IsRoot()).To(BeTrue())
			Expect(mockRepo.options).To(HaveKey(o.ID))
		})

		It("rejects a parent from another partner", func() {
			foreign, err := service.Create(ctx, "store-2", option.CreateOptionDTO{Type: option.TypeColor, Name: "Red"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, partner, option.CreateOptionDTO{Type: option.TypeColor, Name: "Pink", ParentID: &foreign.ID})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("rejects a parent of a different type", func() {
			size := create(option.TypeSize, "M", nil)
			_, err := service.Create(ctx, partner, option.CreateOptionDTO{Type: option.TypeColor, Name: "Pink", ParentID: &size.ID})
			Expect(err).To(HaveOccurred())
		})

		It("wraps repository failures", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))
			_, err := service.Create(ctx, partner, option.CreateOptionDTO{Type: option.TypeBrand, Name: "Acme"})
			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		})
	})

	Describe("Update", func() {
		It("renames an option", func() {
			o := create(option.TypeColor, "Red", nil)
			name := "Crimson"
			updated, err := service.Update(ctx, partner, o.ID, option.UpdateOptionDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Crimson"))
		})

		It("refuses to move an option under its own descendant", func() {
			root := create(option.TypeColor, "Red", nil)
			child := create(option.TypeColor, "Dark red", &root.ID)
			_, err := service.Update(ctx, partner, root.ID, option.UpdateOptionDTO{ParentID: &child.ID})
			Expect(err).To(HaveOccurred())
		})

		It("refuses self parenting", func() {
			root := create(option.TypeColor, "Red", nil)
			_, err := service.Update(ctx, partner, root.ID, option.UpdateOptionDTO{ParentID: &root.ID})
			Expect(err).To(HaveOccurred())
		})

		It("returns not found for a missing option", func() {
			name := "x"
			_, err := service.Update(ctx, partner, "missing", option.UpdateOptionDTO{Name: &name})
			Expect(errors.Is(err, internal.ErrOptionNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("removes the option and its descendants", func() {
			root := create(option.TypeColor, "Red", nil)
			child := create(option.TypeColor, "Dark red", &root.ID)
			grandchild := create(option.TypeColor, "Maroon", &child.ID)
			other := create(option.TypeColor, "Blue", nil)

			deleted, err := service.Delete(ctx, partner, root.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(ConsistOf(root.ID, child.ID, grandchild.ID))
			Expect(mockRepo.options).To(HaveLen(1))
			Expect(mockRepo.options).To(HaveKey(other.ID))
		})

		It("returns not found for a missing option", func() {
			_, err := service.Delete(ctx, partner, "missing")
			Expect(errors.Is(err, internal.ErrOptionNotFound)).To(BeTrue())
		})
	})
})
