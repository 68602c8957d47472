package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vnshop/storefront/internal/domain"
)

// OrderResource manages orders for customers and admins.
type OrderResource struct {
	c *Client
}

func orderPath(id int64, suffix string) string {
	return "/order/" + strconv.FormatInt(id, 10) + suffix
}

func pageQuery(page, size int) url.Values {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

// Create places an order.
func (r *OrderResource) Create(ctx context.Context, order domain.NewOrder) (*domain.Order, error) {
	var created domain.Order
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodPost,
		path:     "/order/create",
		body:     order,
		op:       "order.create",
		fallback: "could not place the order",
	}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListMine returns one page of the current user's orders.
func (r *OrderResource) ListMine(ctx context.Context, page, size int) (domain.OrderPage, error) {
	body, err := r.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/order/user/list",
		query:    pageQuery(page, size),
		op:       "order.list_mine",
		fallback: "could not load your orders",
	})
	if err != nil {
		return domain.OrderPage{}, err
	}
	orders, err := decodeList[domain.Order](body, "order", "orders")
	if err != nil {
		return domain.OrderPage{}, err
	}
	result := domain.OrderPage{Orders: orders}
	// Totals are only present on paginated responses.
	var totals struct {
		TotalPages    int   `json:"totalPages"`
		TotalElements int64 `json:"totalElements"`
	}
	if decodeData(body, "order", &totals) == nil {
		result.TotalPages, result.TotalElements = totals.TotalPages, totals.TotalElements
	}
	return result, nil
}

// Get returns an order merged with its product lines.
func (r *OrderResource) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodGet,
		path:     orderPath(id, ""),
		op:       "order.get",
		fallback: "could not load the order",
	}, &order); err != nil {
		return nil, err
	}

	body, err := r.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/order/details/" + strconv.FormatInt(id, 10),
		op:       "order.details",
		fallback: "could not load the order details",
	})
	if err != nil {
		return nil, err
	}
	details, err := decodeList[domain.OrderDetail](body, "order details", "orderDetails")
	if err != nil {
		return nil, err
	}
	order.OrderDetails = details
	return &order, nil
}

// Cancel cancels a pending order.
func (r *OrderResource) Cancel(ctx context.Context, id int64) (string, error) {
	return r.c.send(ctx, call{
		method:   http.MethodPut,
		path:     orderPath(id, "/cancel"),
		op:       "order.cancel",
		fallback: "could not cancel the order",
	})
}

// UpdateStatus moves an order to status.
func (r *OrderResource) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (string, error) {
	return r.c.send(ctx, call{
		method:   http.MethodPut,
		path:     orderPath(id, "/status"),
		body:     map[string]domain.OrderStatus{"status": status},
		op:       "order.update_status",
		fallback: "could not update the order status",
	})
}

// UserByOrder returns the customer who placed an order.
func (r *OrderResource) UserByOrder(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodGet,
		path:     "/order/userDetails/" + strconv.FormatInt(id, 10),
		op:       "order.user",
		fallback: "could not load the customer for this order",
	}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByUser returns a user's orders, accepting array, paginated or single-object payloads.
func (r *OrderResource) ListByUser(ctx context.Context, userID int64, page, size int) ([]domain.Order, error) {
	body, err := r.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/order/user/" + strconv.FormatInt(userID, 10),
		query:    pageQuery(page, size),
		op:       "order.list_by_user",
		fallback: "could not load the orders",
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Order](body, "order", "orders")
}
