package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/api/http/handlers"
	"github.com/vnshop/storefront/internal/auth"
	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/observability"
	"github.com/vnshop/storefront/internal/repository"
	"github.com/vnshop/storefront/internal/service"
	"github.com/vnshop/storefront/internal/worker"
)

// ServerOptions configures the development backend.
type ServerOptions struct {
	App       config.AppConfig
	DevServer config.DevServerConfig
	Logger    *zap.Logger
	// Registry receives the request metrics and is served on /metrics. Optional.
	Registry *prometheus.Registry
	// Accounts seeded at startup. Nil means repository.DefaultAccounts.
	Accounts       []repository.SeedAccount
	RequestTimeout time.Duration
}

// Server is an assembled devserver.
type Server struct {
	App          *fiber.App
	Repositories repository.Repositories
	Accounts     *service.AccountService
	// Outbox holds the confirmation and order mails.
	Outbox *service.Outbox
}

// NewServer builds and seeds the devserver.
func NewServer(ctx context.Context, opts ServerOptions) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	accounts := opts.Accounts
	if accounts == nil {
		accounts = repository.DefaultAccounts
	}

	repos := repository.NewRepositories()
	dispatcher := events.NewInMemoryDispatcher(logger.Named("events"))
	outbox := worker.StartNotificationWorker(dispatcher, repos.Users, opts.DevServer.MailFrom, logger)

	accountService := service.NewAccountService(opts.DevServer, repos.Users, dispatcher, logger)
	if err := repository.Seed(ctx, repos, accounts, accountService.HashPassword); err != nil {
		return nil, err
	}
	catalogService := service.NewCatalogService(repos, logger)
	orderService := service.NewOrderService(repos, dispatcher, logger)

	var metrics *observability.Metrics
	if opts.Registry != nil {
		metrics = observability.NewMetrics("devserver", opts.Registry)
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, opts.RequestTimeout)

	if opts.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler(opts.App.Name, opts.App.Version, map[string]handlers.ReadinessCheck{
			"catalog": func(ctx context.Context) error {
				_, err := repos.Categories.List(ctx)
				return err
			},
		}),
		Auth:           handlers.NewAuthHandler(accountService),
		Users:          handlers.NewUsersHandler(accountService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Cart:           handlers.NewCartHandler(catalogService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Addresses:      handlers.NewAddressHandler(catalogService),
		Dashboard:      handlers.NewDashboardHandler(orderService),
		AuthMiddleware: auth.NewAuthMiddleware(accountService.TokenManager(), repos.Users),
	})

	return &Server{App: app, Repositories: repos, Accounts: accountService, Outbox: outbox}, nil
}
