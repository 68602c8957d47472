package gateway

import (
	"context"
	"net/http"

	"github.com/vnshop/storefront/internal/domain"
)

// CategoryResource reads product categories.
type CategoryResource struct {
	c *Client
}

// List returns every category.
func (r *CategoryResource) List(ctx context.Context) ([]domain.Category, error) {
	body, err := r.c.do(ctx, call{
		method:    http.MethodGet,
		path:      "/category/list",
		op:        "category.list",
		fallback:  "could not load categories",
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Category](body, "category", "categories")
}
