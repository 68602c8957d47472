package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/api/http/handlers"
	"github.com/vnshop/storefront/internal/auth"
)

// AdminRole gates the management endpoints.
const AdminRole = "ROLE_ADMIN"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Catalog        *handlers.CatalogHandler
	Cart           *handlers.CartHandler
	Orders         *handlers.OrdersHandler
	Addresses      *handlers.AddressHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Static segments are registered before
// parameterized siblings so they win the match.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireRole(AdminRole)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/google", cfg.Auth.Google)
	authGroup.Post("/logout", cfg.Auth.Logout)

	app.Get("/product/list", cfg.Catalog.Products)
	app.Get("/product/:id", cfg.Catalog.Product)
	app.Get("/category/list", cfg.Catalog.Categories)

	users := app.Group("/user")
	users.Post("/add", cfg.Users.Register)
	users.Get("/confirm-email", cfg.Users.ConfirmEmail)
	users.Get("/profile", authenticated, cfg.Users.Profile)
	users.Put("/upd", authenticated, cfg.Users.Update)
	users.Get("/list", authenticated, admin, cfg.Users.List)
	users.Delete("/del/:id", authenticated, admin, cfg.Users.Delete)
	users.Get("/:id", authenticated, admin, cfg.Users.Get)

	cart := app.Group("/cart", authenticated)
	cart.Get("/items", cfg.Cart.Items)
	cart.Post("/add", cfg.Cart.Add)
	cart.Put("/update", cfg.Cart.Update)
	cart.Delete("/remove/:id", cfg.Cart.Remove)
	cart.Delete("/clear", cfg.Cart.Clear)

	orders := app.Group("/order", authenticated)
	orders.Post("/create", cfg.Orders.Create)
	orders.Get("/user/list", cfg.Orders.ListMine)
	orders.Get("/user/:userId", admin, cfg.Orders.ListByUser)
	orders.Get("/details/:id", cfg.Orders.Details)
	orders.Get("/userDetails/:id", admin, cfg.Orders.Customer)
	orders.Put("/:id/cancel", cfg.Orders.Cancel)
	orders.Put("/:id/status", admin, cfg.Orders.UpdateStatus)
	orders.Get("/:id", cfg.Orders.Get)

	addresses := app.Group("/address", authenticated)
	addresses.Get("/list", cfg.Addresses.List)
	addresses.Put("/upd", cfg.Addresses.Update)

	dashboard := app.Group("/admin/dashboard", authenticated, admin)
	dashboard.Get("/stats", cfg.Dashboard.Stats)
	dashboard.Get("/revenue", cfg.Dashboard.Revenue)
	dashboard.Get("/recent-orders", cfg.Dashboard.RecentOrders)
	dashboard.Get("/top-products", cfg.Dashboard.TopProducts)
}
