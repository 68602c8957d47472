package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/repository"
	"github.com/vnshop/storefront/internal/service"
)

// CatalogHandler exposes the public product and category reads.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Products handles GET /product/list.
func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	page, err := h.catalog.ListProducts(c.UserContext(), repository.ProductFilter{
		CategoryID: int64(c.QueryInt("categoryId", 0)),
		Keyword:    c.Query("keyword"),
		Page:       c.QueryInt("page", 1),
		Size:       c.QueryInt("size", 6),
	})
	if err != nil {
		return err
	}
	return ok(c, page)
}

// Product handles GET /product/{id}.
func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Categories handles GET /category/list.
func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, categories)
}
