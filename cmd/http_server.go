package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/marketplace/api"
	"github.com/frahmantamala/marketplace/internal"
	"github.com/frahmantamala/marketplace/internal/analytics"
	analyticsPostgres "github.com/frahmantamala/marketplace/internal/analytics/postgres"
	"github.com/frahmantamala/marketplace/internal/auth"
	authPostgres "github.com/frahmantamala/marketplace/internal/auth/postgres"
	"github.com/frahmantamala/marketplace/internal/branch"
	branchPostgres "github.com/frahmantamala/marketplace/internal/branch/postgres"
	"github.com/frahmantamala/marketplace/internal/category"
	categoryPostgres "github.com/frahmantamala/marketplace/internal/category/postgres"
	"github.com/frahmantamala/marketplace/internal/core/events"
	"github.com/frahmantamala/marketplace/internal/courier"
	courierPostgres "github.com/frahmantamala/marketplace/internal/courier/postgres"
	"github.com/frahmantamala/marketplace/internal/favorite"
	favoritePostgres "github.com/frahmantamala/marketplace/internal/favorite/postgres"
	"github.com/frahmantamala/marketplace/internal/notification"
	notificationPostgres "github.com/frahmantamala/marketplace/internal/notification/postgres"
	"github.com/frahmantamala/marketplace/internal/option"
	optionPostgres "github.com/frahmantamala/marketplace/internal/option/postgres"
	"github.com/frahmantamala/marketplace/internal/store"
	storePostgres "github.com/frahmantamala/marketplace/internal/store/postgres"
	"github.com/frahmantamala/marketplace/internal/transport"
	"github.com/frahmantamala/marketplace/internal/transport/rest"
	"github.com/frahmantamala/marketplace/internal/transport/swagger"
	"github.com/frahmantamala/marketplace/internal/user"
	userPostgres "github.com/frahmantamala/marketplace/internal/user/postgres"
	"github.com/frahmantamala/marketplace/pkg/broker"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	notificationDispatchTimeout = 5 * time.Second
	shutdownTimeout             = 30 * time.Second
)

var serverPort int

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API",
	Long:  `Serve the REST API, the OpenAPI document and Swagger UI until SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHTTPServer(cmd.Context())
	},
}

func init() {
	httpServerCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Listen port (overrides config)")
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Producer *broker.Producer
	Logger   *slog.Logger
}

// Close drains queued event handlers before releasing the broker and the pool.
func (d *Dependencies) Close(ctx context.Context) {
	if err := d.EventBus.Drain(ctx); err != nil {
		d.Logger.Error("event handlers still running", "error", err)
	}
	if d.Producer != nil {
		d.Producer.Close()
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func runHTTPServer(parent context.Context) error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	if err := setupRoutes(deps); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		deps.Close(shutdownCtx)
		return fmt.Errorf("set up routes: %w", err)
	}

	port := deps.Config.Server.Port
	if serverPort > 0 {
		port = serverPort
	}
	cfg := deps.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		deps.Logger.Info("http server listening", "address", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("shutting down http server")
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			deps.Close(shutdownCtx)
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		deps.Logger.Error("http server shutdown error", "error", err)
	}
	deps.Close(shutdownCtx)

	deps.Logger.Info("http server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) error {
	doc, err := swagger.LoadSpec(context.Background(), api.OpenAPI)
	if err != nil {
		return err
	}
	deps.Logger.Info("openapi document loaded", "title", doc.Info.Title, "paths", doc.Paths.Len())

	handlers, rbac, err := buildHandlers(deps)
	if err != nil {
		return err
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, rbac, api.OpenAPI, deps.Config.Server.AllowedOrigins, deps.Logger)
	return nil
}

func buildHandlers(deps *Dependencies) (rest.Handlers, *auth.RBACAuthorization, error) {
	cfg := deps.Config
	lg := deps.Logger

	loc, err := cfg.Courier.Location()
	if err != nil {
		return rest.Handlers{}, nil, fmt.Errorf("load courier timezone: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Gorm), tokenGen, lg, cfg.Security.BCryptCost)
	rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), lg)

	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), authService, lg)
	storeService := store.NewService(storePostgres.NewStoreRepository(deps.Gorm), deps.EventBus, lg)
	courierService := courier.NewService(courierPostgres.NewCourierRepository(deps.Gorm), lg, loc)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(deps.Gorm), lg)
	optionService := option.NewService(optionPostgres.NewOptionRepository(deps.Gorm), lg)
	branchService := branch.NewService(branchPostgres.NewBranchRepository(deps.Gorm), storeService, deps.EventBus, lg)
	favoriteService := favorite.NewService(favoritePostgres.NewFavoriteRepository(deps.Gorm), storeService, lg)
	analyticsService := analytics.NewService(analyticsPostgres.NewAnalyticsRepository(deps.DB), lg)

	var dispatcher notification.Dispatcher
	if deps.Producer != nil {
		dispatcher = deps.Producer
	}
	notificationService := notification.NewService(
		notificationPostgres.NewNotificationRepository(deps.Gorm),
		userService,
		dispatcher,
		notificationDispatchTimeout,
		lg,
	)
	notification.NewEventHandler(notificationService, storeService, lg).RegisterEventHandlers(deps.EventBus)

	var checks []rest.Check
	if deps.Producer != nil {
		checks = append(checks, rest.Check{Name: "kafka", Probe: deps.Producer.Ping})
	}

	return rest.Handlers{
		Auth:         auth.NewHandler(authService, lg),
		User:         user.NewHandler(userService, lg),
		Store:        store.NewHandler(storeService, lg),
		Courier:      courier.NewHandler(courierService, lg),
		Category:     category.NewHandler(transport.NewBaseHandler(lg), categoryService, storeService),
		Option:       option.NewHandler(optionService, storeService, lg),
		Branch:       branch.NewHandler(branchService, storeService, lg),
		Favorite:     favorite.NewHandler(favoriteService, lg),
		Notification: notification.NewHandler(notificationService, lg),
		Analytics:    analytics.NewHandler(analyticsService, lg),
		HealthChecks: checks,
	}, rbac, nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := initLogger(config)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		Router:   chi.NewRouter(),
		EventBus: events.NewEventBus(lg),
		Logger:   lg,
	}

	if config.Kafka.Enabled() {
		deps.Producer = broker.NewProducer(lg, config.Kafka.Brokers, config.Kafka.NotificationTopic)
	} else {
		lg.Warn("kafka brokers not configured; notifications are stored without dispatch")
	}

	return deps, nil
}
