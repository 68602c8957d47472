// Package app assembles the console client: storage, session, gateway, cart
// badge, geography cache and navigation guard.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/auth"
	"github.com/vnshop/storefront/internal/cart"
	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/gateway"
	"github.com/vnshop/storefront/internal/location"
	"github.com/vnshop/storefront/internal/observability"
	"github.com/vnshop/storefront/internal/persistence"
	"github.com/vnshop/storefront/internal/router"
	"github.com/vnshop/storefront/internal/service"
	"github.com/vnshop/storefront/internal/session"
	"github.com/vnshop/storefront/internal/storage"
)

// Options overrides parts of the assembly, mainly for tests.
type Options struct {
	// Storage replaces the configured driver.
	Storage storage.Storage
	// HTTPClient is used for backend calls.
	HTTPClient *http.Client
	// GeoHTTPClient is used for the geography API.
	GeoHTTPClient *http.Client
	// Registerer receives the outbound request metrics.
	Registerer prometheus.Registerer
	// Clock overrides time.Now for credential expiry.
	Clock func() time.Time
}

// App is the assembled client.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Storage   storage.Storage
	Events    events.Dispatcher
	Session   *session.Manager
	Gateway   *gateway.Gateway
	Cart      *cart.Badge
	Locations *location.Cache
	Guard     *router.Guard
	Auth      *service.AuthService

	closers []func()
}

// New wires the client and restores any persisted session.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger}

	store := opts.Storage
	if store == nil {
		var err error
		store, err = a.openStorage(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.Storage = store

	tokenOpts := []auth.TokenStoreOption{auth.WithExpiryGrace(cfg.Auth.ExpiryGrace())}
	if opts.Clock != nil {
		tokenOpts = append(tokenOpts, auth.WithClock(opts.Clock))
	}
	tokens := auth.NewTokenStore(store, logger.Named("token"), tokenOpts...)

	a.Events = events.NewInMemoryDispatcher(logger.Named("events"))
	a.Session = session.NewManager(tokens, session.NewState(), nil, a.Events, logger.Named("session"))

	var metrics *observability.Metrics
	if opts.Registerer != nil {
		metrics = observability.NewMetrics(cfg.Backend.MetricsNamespace, opts.Registerer)
	}
	client := gateway.NewClient(gateway.Options{
		BaseURL:        cfg.Backend.BaseURL,
		HTTPClient:     opts.HTTPClient,
		Tokens:         tokens,
		Timeout:        cfg.Backend.Timeout(),
		Metrics:        metrics,
		Logger:         logger.Named("gateway"),
		OnUnauthorized: a.Session.HandleUnauthorized,
	})
	a.Gateway = gateway.New(client, gateway.Config{
		LongTimeout: cfg.Backend.LongTimeout(),
		CartTimeout: cfg.Cart.Timeout(),
		CartRetry:   gateway.RetryPolicy{Retries: cfg.Cart.Retries, Delay: cfg.Cart.RetryDelay()},
	})

	a.Cart = cart.NewBadge(a.Gateway.Cart, tokens, a.Events, logger.Named("cart"))
	a.Session.SetCart(a.Cart)

	a.Locations = location.NewCache(
		location.NewClient(cfg.Geo, opts.GeoHTTPClient, logger.Named("geo")),
		cfg.Geo.FailurePolicy,
		cfg.Geo.Timeout(),
		logger.Named("geo"),
	)

	a.Guard = router.NewGuard(router.MustTable(router.StorefrontRoutes()), a.Session, router.GuardConfig{
		LoginRoute:     cfg.Auth.LoginRoute,
		ForbiddenRoute: cfg.Auth.ForbiddenRoute,
		AdminRoles:     cfg.Auth.AdminRoles,
		KeepReturnPath: cfg.Auth.KeepReturnPath,
	}, logger.Named("guard"))

	a.Auth = service.NewAuthService(a.Gateway.Users, a.Session, a.Cart, logger.Named("auth"))
	a.Auth.Restore(ctx)
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return storage.NewMemory(), nil
	case config.StorageFile:
		return storage.NewFile(cfg.Storage.FilePath, a.Logger.Named("storage")), nil
	case config.StorageRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, a.Logger)
		a.closers = append(a.closers, rdb.Close)
		return storage.NewRedis(rdb.Client, cfg.Storage.Namespace), nil
	case config.StoragePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), a.Logger); err != nil {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return storage.NewPostgres(pg.PoolHandle(), cfg.Storage.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Close releases storage connections.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn("closing storage failed", zap.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
