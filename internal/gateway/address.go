package gateway

import (
	"context"
	"net/http"

	"github.com/vnshop/storefront/internal/domain"
)

// AddressResource manages the user's saved delivery addresses.
type AddressResource struct {
	c *Client
}

// List returns the user's address book.
func (r *AddressResource) List(ctx context.Context) ([]domain.Address, error) {
	body, err := r.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/address/list",
		op:       "address.list",
		fallback: "could not load your addresses",
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Address](body, "address", "addresses")
}

// Update replaces the address book. Failures always propagate.
func (r *AddressResource) Update(ctx context.Context, addresses []domain.Address) (string, error) {
	return r.c.send(ctx, call{
		method:   http.MethodPut,
		path:     "/address/upd",
		body:     addresses,
		op:       "address.update",
		fallback: "could not update your addresses",
	})
}
