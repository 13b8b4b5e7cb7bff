package rest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/category"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/frahmantamala/marketplace/internal/transport/rest"
	"github.com/frahmantamala/marketplace/internal/user"
	"github.com/frahmantamala/marketplace/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "REST Router Suite")
}

// fakeAuth resolves a bearer token straight to a principal.
type fakeAuth struct {
	principals map[string]*auth.User
}

func (f *fakeAuth) Authenticate(context.Context, auth.LoginDTO) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, internal.ErrInvalidCredentials
}

func (f *fakeAuth) RefreshTokens(context.Context, string) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, internal.ErrInvalidToken
}

func (f *fakeAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	if _, ok := f.principals[token]; !ok {
		return nil, internal.ErrInvalidToken
	}
	return &auth.Claims{UserID: token}, nil
}

func (f *fakeAuth) GetPrincipal(_ context.Context, userID string) (*auth.User, error) {
	u, ok := f.principals[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

type fakeUsers struct {
	user.ServiceAPI
	listed int
}

func (f *fakeUsers) List(context.Context, user.ListFilter) ([]*user.User, error) {
	f.listed++
	return []*user.User{}, nil
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		users  *fakeUsers
	)

	BeforeEach(func() {
		lg := logger.Discard()
		users = &fakeUsers{}
		authSvc := &fakeAuth{principals: map[string]*auth.User{
			"admin":    {ID: "admin", Role: auth.RoleAdmin},
			"banned":   {ID: "banned", Role: auth.RoleAdmin, Banned: true},
			"customer": {ID: "customer", Role: auth.RoleCustomer},
			"viewer":   {ID: "viewer", Role: auth.RoleSubUser, Permissions: &auth.Permissions{CanViewUsers: true}},
			"courier":  {ID: "courier", Role: auth.RoleSubUser, Permissions: &auth.Permissions{CanViewCouriers: true}},
		}}

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, nil, rest.Handlers{
			Auth:     auth.NewHandler(authSvc, lg),
			User:     user.NewHandler(users, lg),
			Category: category.NewHandler(transport.NewBaseHandler(lg), nil, nil),
		}, auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg), []byte("openapi: 3.0.3\n"), "*", lg)
	})

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("serves liveness without a token", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "").Code).To(Equal(http.StatusOK))
	})

	It("serves the openapi document", func() {
		rec := do(http.MethodGet, "/openapi.yml", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("openapi"))
	})

	It("requires a token for admin routes", func() {
		Expect(do(http.MethodGet, "/api/v1/admin/users", "").Code).To(Equal(http.StatusUnauthorized))
		Expect(do(http.MethodGet, "/api/v1/admin/users", "unknown").Code).To(Equal(http.StatusUnauthorized))
	})

	It("refuses banned principals", func() {
		Expect(do(http.MethodGet, "/api/v1/admin/users", "banned").Code).To(Equal(http.StatusForbidden))
		Expect(users.listed).To(BeZero())
	})

	It("refuses roles that never reach the admin panel", func() {
		Expect(do(http.MethodGet, "/api/v1/admin/users", "customer").Code).To(Equal(http.StatusForbidden))
	})

	It("admits sub-users holding the capability", func() {
		Expect(do(http.MethodGet, "/api/v1/admin/users", "viewer").Code).To(Equal(http.StatusOK))
		Expect(users.listed).To(Equal(1))
	})

	It("refuses sub-users without the capability", func() {
		Expect(do(http.MethodGet, "/api/v1/admin/users", "courier").Code).To(Equal(http.StatusForbidden))
		Expect(users.listed).To(BeZero())
	})

	It("admits admins", func() {
		Expect(do(http.MethodGet, "/api/v1/admin/users", "admin").Code).To(Equal(http.StatusOK))
	})

	It("keeps view and manage capabilities apart", func() {
		Expect(do(http.MethodDelete, "/api/v1/admin/users/u1", "viewer").Code).To(Equal(http.StatusForbidden))
	})

	It("reserves sub-user creation for admins", func() {
		Expect(do(http.MethodPost, "/api/v1/admin/sub-users", "viewer").Code).To(Equal(http.StatusForbidden))
	})

	It("keeps partner catalog routes to store accounts", func() {
		Expect(do(http.MethodGet, "/api/v1/categories", "customer").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/categories", "admin").Code).To(Equal(http.StatusForbidden))
	})
})
