package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/service"
)

// DashboardHandler exposes the admin reports.
type DashboardHandler struct {
	orders *service.OrderService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(orders *service.OrderService) *DashboardHandler {
	return &DashboardHandler{orders: orders}
}

// Stats handles GET /admin/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.orders.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// Revenue handles GET /admin/dashboard/revenue?period=year|month&year=&month=.
func (h *DashboardHandler) Revenue(c *fiber.Ctx) error {
	month := 0
	if c.Query("period", "year") == "month" {
		month = c.QueryInt("month", 0)
	}
	series, err := h.orders.Revenue(c.UserContext(), c.QueryInt("year", 0), month)
	if err != nil {
		return err
	}
	return ok(c, series)
}

// RecentOrders handles GET /admin/dashboard/recent-orders.
func (h *DashboardHandler) RecentOrders(c *fiber.Ctx) error {
	orders, err := h.orders.RecentOrders(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return ok(c, orders)
}

// TopProducts handles GET /admin/dashboard/top-products.
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	products, err := h.orders.TopProducts(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return ok(c, products)
}
