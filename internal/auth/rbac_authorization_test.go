package auth

import (
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/marketplace/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac *RBACAuthorization
		ok   http.Handler
	)

	ginkgo.BeforeEach(func() {
		rbac = NewRBACAuthorization(NewPermissionChecker(), logger.Discard())
		ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	})

	serve := func(h http.Handler, u *User) int {
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		if u != nil {
			req = req.WithContext(ContextWithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	ginkgo.Describe("RequireCapability", func() {
		ginkgo.It("should reject anonymous requests", func() {
			gomega.Expect(serve(rbac.RequireCapability(CanViewUsers)(ok), nil)).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should pass admins through", func() {
			gomega.Expect(serve(rbac.RequireCapability(CanViewUsers)(ok), &User{ID: "a", Role: RoleAdmin})).To(gomega.Equal(http.StatusTeapot))
		})

		ginkgo.It("should forbid a store owner", func() {
			gomega.Expect(serve(rbac.RequireCapability(CanViewUsers)(ok), &User{ID: "s", Role: RoleStore})).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("should gate sub-users on the flag", func() {
			u := &User{ID: "sub", Role: RoleSubUser, Permissions: &Permissions{CanViewUsers: true}}
			gomega.Expect(serve(rbac.RequireCapability(CanViewUsers)(ok), u)).To(gomega.Equal(http.StatusTeapot))
			gomega.Expect(serve(rbac.RequireCapability(CanManageUsers)(ok), u)).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Describe("RequireRole", func() {
		ginkgo.It("should admit listed roles only", func() {
			h := rbac.RequireRole(RoleCourier)(ok)
			gomega.Expect(serve(h, &User{ID: "c", Role: RoleCourier})).To(gomega.Equal(http.StatusTeapot))
			gomega.Expect(serve(h, &User{ID: "c", Role: RoleCustomer})).To(gomega.Equal(http.StatusForbidden))
		})
	})
})
