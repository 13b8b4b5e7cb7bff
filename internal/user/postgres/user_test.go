package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	userDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/user"
	"github.com/frahmantamala/marketplace/internal/user"
	userPostgres "github.com/frahmantamala/marketplace/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo user.Repository
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
	})

	seed := func(email string, role auth.Role) *userDatamodel.User {
		u := user.ToDataModel(user.NewUser(email, email, "hash", role))
		Expect(repo.Create(ctx, u)).To(Succeed())
		return u
	}

	It("should keep admins at role zero", func() {
		u := seed("admin@example.com", auth.RoleAdmin)
		got, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Role).To(Equal(0))
	})

	It("should round trip sub-user permissions", func() {
		u := seed("sub@example.com", auth.RoleSubUser)
		perms := auth.Permissions{CanViewUsers: true}
		Expect(repo.UpdateFields(ctx, u.ID, map[string]interface{}{
			"permissions": userDatamodel.PermissionSet(perms.ToMap()),
		})).To(Succeed())

		got, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Permissions["canViewUsers"]).To(BeTrue())
		Expect(got.Permissions["canManageUsers"]).To(BeFalse())
	})

	It("should store no permissions for other roles", func() {
		u := seed("store@example.com", auth.RoleStore)
		got, err := repo.GetByID(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Permissions).To(BeNil())
	})

	It("should search by name or email case-insensitively", func() {
		seed("alice@example.com", auth.RoleCustomer)
		seed("bob@example.com", auth.RoleCustomer)

		rows, err := repo.List(ctx, user.ListFilter{Search: "ALI"})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Email).To(Equal("alice@example.com"))
	})

	It("should filter by banned", func() {
		u := seed("alice@example.com", auth.RoleCustomer)
		seed("bob@example.com", auth.RoleCustomer)
		Expect(repo.UpdateFields(ctx, u.ID, map[string]interface{}{"banned": true})).To(Succeed())

		banned := true
		rows, err := repo.List(ctx, user.ListFilter{Banned: &banned})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})

	It("should report duplicate emails", func() {
		seed("alice@example.com", auth.RoleCustomer)
		dup := user.ToDataModel(user.NewUser("alice@example.com", "again", "hash", auth.RoleCustomer))
		Expect(errors.Is(repo.Create(ctx, dup), internal.ErrDuplicateEmail)).To(BeTrue())

		exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
	})

	It("should report missing users on delete", func() {
		Expect(errors.Is(repo.Delete(ctx, "missing"), internal.ErrUserNotFound)).To(BeTrue())
	})
})
