package gateway

import "time"

// Config carries the per-resource timeouts and the cart retry policy.
type Config struct {
	LongTimeout time.Duration
	CartTimeout time.Duration
	CartRetry   RetryPolicy
}

// Gateway groups the resource wrappers over one shared Client.
type Gateway struct {
	Client     *Client
	Addresses  *AddressResource
	Cart       *CartResource
	Categories *CategoryResource
	Orders     *OrderResource
	Products   *ProductResource
	Users      *UserResource
	Dashboard  *DashboardResource
}

// New builds every resource wrapper.
func New(client *Client, cfg Config) *Gateway {
	products := &ProductResource{c: client}
	return &Gateway{
		Client:     client,
		Addresses:  &AddressResource{c: client},
		Cart:       &CartResource{c: client, products: products, timeout: cfg.CartTimeout, retry: cfg.CartRetry},
		Categories: &CategoryResource{c: client},
		Orders:     &OrderResource{c: client},
		Products:   products,
		Users:      &UserResource{c: client},
		Dashboard:  &DashboardResource{c: client, timeout: cfg.LongTimeout},
	}
}
