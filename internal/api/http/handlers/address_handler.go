package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/service"
)

// AddressHandler exposes the caller's saved addresses.
type AddressHandler struct {
	catalog *service.CatalogService
}

// NewAddressHandler constructs handler.
func NewAddressHandler(catalog *service.CatalogService) *AddressHandler {
	return &AddressHandler{catalog: catalog}
}

// List handles GET /address/list.
func (h *AddressHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	addresses, err := h.catalog.Addresses(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return ok(c, addresses)
}

// Update handles PUT /address/upd with the complete list.
func (h *AddressHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var addresses []domain.Address
	if err := parseBody(c, &addresses); err != nil {
		return err
	}
	if err := h.catalog.ReplaceAddresses(c.UserContext(), actor.UserID, addresses); err != nil {
		return err
	}
	return done(c, "addresses updated")
}
