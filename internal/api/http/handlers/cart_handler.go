package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/api/dto"
	"github.com/vnshop/storefront/internal/service"
)

// CartHandler exposes the caller's cart.
type CartHandler struct {
	catalog *service.CatalogService
}

// NewCartHandler constructs handler.
func NewCartHandler(catalog *service.CatalogService) *CartHandler {
	return &CartHandler{catalog: catalog}
}

// Items handles GET /cart/items.
func (h *CartHandler) Items(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, err := h.catalog.CartItems(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return ok(c, dto.CartResponse{Items: items})
}

// Add handles POST /cart/add.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CartLineRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.catalog.AddToCart(c.UserContext(), actor.UserID, req.ProductID, req.Quantity); err != nil {
		return err
	}
	return done(c, "product added to cart")
}

// Update handles PUT /cart/update.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CartLineRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.catalog.UpdateCart(c.UserContext(), actor.UserID, req.ProductID, req.Quantity); err != nil {
		return err
	}
	return done(c, "cart updated")
}

// Remove handles DELETE /cart/remove/{id}.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.RemoveFromCart(c.UserContext(), actor.UserID, productID); err != nil {
		return err
	}
	return done(c, "product removed from cart")
}

// Clear handles DELETE /cart/clear.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.catalog.ClearCart(c.UserContext(), actor.UserID); err != nil {
		return err
	}
	return done(c, "cart cleared")
}
