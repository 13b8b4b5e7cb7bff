package rest

import (
	"database/sql"
	"log/slog"

	"github.com/frahmantamala/marketplace/internal/analytics"
	"github.com/frahmantamala/marketplace/internal/auth"
	"github.com/frahmantamala/marketplace/internal/branch"
	"github.com/frahmantamala/marketplace/internal/category"
	"github.com/frahmantamala/marketplace/internal/courier"
	"github.com/frahmantamala/marketplace/internal/favorite"
	"github.com/frahmantamala/marketplace/internal/notification"
	"github.com/frahmantamala/marketplace/internal/option"
	"github.com/frahmantamala/marketplace/internal/store"
	"github.com/frahmantamala/marketplace/internal/transport/middleware"
	"github.com/frahmantamala/marketplace/internal/transport/swagger"
	"github.com/frahmantamala/marketplace/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups every HTTP handler mounted by the router. A nil handler
// leaves its routes unmounted.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Store        *store.Handler
	Courier      *courier.Handler
	Category     *category.Handler
	Option       *option.Handler
	Branch       *branch.Handler
	Favorite     *favorite.Handler
	Notification *notification.Handler
	Analytics    *analytics.Handler
	HealthChecks []Check
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, openapiDoc []byte, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, h.HealthChecks...)

	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if len(openapiDoc) > 0 {
		router.Get("/openapi.yml", swagger.SpecHandler(openapiDoc))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.ServeHealth)
		r.Get("/ping", healthHandler.ServePing)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Public storefront
		if h.Store != nil {
			r.Get("/stores", h.Store.ListPublicStores)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Notification != nil {
				pr.Get("/notifications", h.Notification.ListMine)
				pr.Put("/notifications/{id}/read", h.Notification.MarkRead)
			}

			pr.Route("/admin", func(ar chi.Router) {
				registerAdminRoutes(ar, h, rbac)
			})

			pr.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireRole(auth.RoleStore))
				registerStoreRoutes(sr, h)
			})

			if h.Favorite != nil {
				pr.Group(func(cr chi.Router) {
					cr.Use(rbac.RequireRole(auth.RoleCustomer))
					cr.Get("/favorites/stores", h.Favorite.ListFavoriteStores)
					cr.Put("/favorites/stores/{id}", h.Favorite.AddFavoriteStore)
					cr.Delete("/favorites/stores/{id}", h.Favorite.RemoveFavoriteStore)
				})
			}

			if h.Courier != nil {
				pr.Group(func(cr chi.Router) {
					cr.Use(rbac.RequireRole(auth.RoleCourier))
					cr.Put("/courier/me/online", h.Courier.SetMyOnline)
				})
			}
		})
	})
}

func registerAdminRoutes(r chi.Router, h Handlers, rbac *auth.RBACAuthorization) {
	if h.User != nil {
		r.Route("/users", func(ur chi.Router) {
			ur.With(rbac.RequireCapability(auth.CanViewUsers)).Get("/", h.User.ListUsers)
			ur.With(rbac.RequireCapability(auth.CanViewUsers)).Get("/{id}", h.User.GetUser)
			ur.With(rbac.RequireCapability(auth.CanViewUsers)).Get("/{id}/permissions", h.User.GetPermissions)

			ur.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireCapability(auth.CanManageUsers))
				mr.Patch("/{id}", h.User.UpdateUser)
				mr.Delete("/{id}", h.User.DeleteUser)
				mr.Post("/{id}/ban", h.User.BanUser)
				mr.Post("/{id}/unban", h.User.UnbanUser)
				mr.Put("/{id}/permissions", h.User.UpdatePermissions)
			})
		})
		r.With(rbac.RequireRole(auth.RoleAdmin)).Post("/sub-users", h.User.CreateSubUser)
	}

	if h.Store != nil {
		r.Route("/stores", func(sr chi.Router) {
			sr.With(rbac.RequireCapability(auth.CanViewStores)).Get("/", h.Store.ListStores)
			sr.With(rbac.RequireCapability(auth.CanViewStores)).Get("/{id}", h.Store.GetStore)
			sr.With(rbac.RequireCapability(auth.CanManageStores)).Post("/{id}/approve", h.Store.ApproveStore)
			sr.With(rbac.RequireCapability(auth.CanManageStores)).Post("/{id}/reject", h.Store.RejectStore)
		})
	}

	if h.Courier != nil {
		r.Route("/couriers", func(cr chi.Router) {
			cr.With(rbac.RequireCapability(auth.CanViewCouriers)).Get("/", h.Courier.ListCouriers)
			cr.With(rbac.RequireCapability(auth.CanViewCouriers)).Get("/{id}", h.Courier.GetCourier)

			cr.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireCapability(auth.CanManageCouriers))
				mr.Post("/", h.Courier.CreateCourier)
				mr.Patch("/{id}/status", h.Courier.UpdateStatus)
				mr.Put("/{id}/working-hours", h.Courier.SetWorkingHours)
			})
		})
	}

	if h.Notification != nil {
		r.With(rbac.RequireCapability(auth.CanSendNotifications)).Post("/notifications", h.Notification.Broadcast)
	}

	if h.Analytics != nil {
		r.With(rbac.RequireCapability(auth.CanViewAnalytics)).Get("/analytics", h.Analytics.GetOverview)
	}
}

func registerStoreRoutes(r chi.Router, h Handlers) {
	if h.Store != nil {
		r.Post("/stores", h.Store.RegisterStore)
		r.Get("/store-settings", h.Store.GetSettings)
		r.Put("/store-settings", h.Store.UpdateSettings)
	}

	if h.Category != nil {
		r.Route("/categories", func(cr chi.Router) {
			cr.Get("/", h.Category.GetCategories)
			cr.Post("/", h.Category.CreateCategory)
			cr.Put("/{id}", h.Category.UpdateCategory)
			cr.Delete("/{id}", h.Category.DeleteCategory)
		})
	}

	if h.Option != nil {
		r.Route("/options", func(or chi.Router) {
			or.Get("/", h.Option.ListOptions)
			or.Post("/", h.Option.CreateOption)
			or.Put("/{id}", h.Option.UpdateOption)
			or.Delete("/{id}", h.Option.DeleteOption)
		})
	}

	if h.Branch != nil {
		r.Get("/branches", h.Branch.ListManaged)
		r.Get("/branches/search", h.Branch.SearchStores)
		r.Route("/branches/requests", func(br chi.Router) {
			br.Get("/", h.Branch.ListRequests)
			br.Post("/", h.Branch.CreateRequest)
			br.Put("/{id}/approve", h.Branch.ApproveRequest)
			br.Put("/{id}/reject", h.Branch.RejectRequest)
			br.Put("/{id}/revoke", h.Branch.RevokeRequest)
		})
	}
}
