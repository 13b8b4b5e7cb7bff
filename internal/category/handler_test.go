package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/category"
	categoryPostgres "github.com/frahmantamala/marketplace/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/category"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticPartners map[string]string

func (s staticPartners) PartnerIDForOwner(_ context.Context, ownerID string) (string, error) {
	if id, ok := s[ownerID]; ok {
		return id, nil
	}
	return "", internal.ErrStoreNotFound
}

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		owner  *auth.User
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&categoryDatamodel.Category{})).To(Succeed())

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler := category.NewHandler(baseHandler, service, staticPartners{"owner-1": "store-1"})

		owner = &auth.User{ID: "owner-1", Role: auth.RoleStore}
		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), owner)))
			})
		})
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	createCategory := func(body string) category.Category {
		w := do(http.MethodPost, "/categories", body)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var c category.Category
		Expect(json.NewDecoder(w.Body).Decode(&c)).To(Succeed())
		return c
	}

	It("should create and list categories as a tree", func() {
		food := createCategory(`{"name":"Food"}`)
		createCategory(`{"name":"Drinks","parent_id":"` + food.ID + `"}`)

		w := do(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(2))
		Expect(response.Categories[1].Depth).To(Equal(1))
		Expect(response.Categories[1].Path).To(Equal("Food / Drinks"))
	})

	It("should cascade deletes through the API", func() {
		food := createCategory(`{"name":"Food"}`)
		drinks := createCategory(`{"name":"Drinks","parent_id":"` + food.ID + `"}`)
		createCategory(`{"name":"Tea","parent_id":"` + drinks.ID + `"}`)

		w := do(http.MethodDelete, "/categories/"+food.ID, "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var count int64
		Expect(db.Model(&categoryDatamodel.Category{}).Count(&count).Error).To(Succeed())
		Expect(count).To(BeZero())
	})

	It("should reject unknown fields", func() {
		w := do(http.MethodPost, "/categories", `{"name":"Food","color":"red"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for another partner's category", func() {
		Expect(db.Create(&categoryDatamodel.Category{ID: "foreign", PartnerID: "store-2", Name: "X"}).Error).To(Succeed())

		w := do(http.MethodDelete, "/categories/foreign", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should refuse users without a store", func() {
		owner = &auth.User{ID: "someone-else", Role: auth.RoleStore}
		w := do(http.MethodGet, "/categories", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
