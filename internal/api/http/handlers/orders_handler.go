package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/api/dto"
	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/service"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// OrdersHandler exposes checkout and order management.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// Create handles POST /order/create.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req domain.NewOrder
	if err := parseBody(c, &req); err != nil {
		return err
	}
	order, err := h.orders.Create(c.UserContext(), actor.UserID, req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "order placed", order)
}

// ListMine handles GET /order/user/list.
func (h *OrdersHandler) ListMine(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := h.orders.ListByUser(c.UserContext(), actor.UserID, c.QueryInt("page", 1), c.QueryInt("size", 10))
	if err != nil {
		return err
	}
	return ok(c, page)
}

// ListByUser handles GET /order/user/{userId}.
func (h *OrdersHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	page, err := h.orders.ListByUser(c.UserContext(), userID, c.QueryInt("page", 1), c.QueryInt("size", 10))
	if err != nil {
		return err
	}
	return ok(c, page)
}

// Get handles GET /order/{id}.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, order)
}

// Details handles GET /order/details/{id}.
func (h *OrdersHandler) Details(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	details, err := h.orders.Details(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, details)
}

// Cancel handles PUT /order/{id}/cancel.
func (h *OrdersHandler) Cancel(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.orders.Cancel(c.UserContext(), actor, id); err != nil {
		return err
	}
	return done(c, "order cancelled")
}

// UpdateStatus handles PUT /order/{id}/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.OrderStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "order status updated", order)
}

// Customer handles GET /order/userDetails/{id}.
func (h *OrdersHandler) Customer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.orders.Customer(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.UserResponse(account))
}
