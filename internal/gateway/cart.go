package gateway

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/vnshop/storefront/internal/domain"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// CartResource manages the active user's cart. Every call retries transient failures.
type CartResource struct {
	c        *Client
	products *ProductResource
	timeout  time.Duration
	retry    RetryPolicy
}

type cartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (r *CartResource) run(ctx context.Context, req call) ([]byte, error) {
	req.timeout = r.timeout
	return r.c.doWithRetry(ctx, req, r.retry)
}

// Items lists the cart lines.
func (r *CartResource) Items(ctx context.Context) ([]domain.CartItem, error) {
	body, err := r.run(ctx, call{
		method:   http.MethodGet,
		path:     "/cart/items",
		op:       "cart.items",
		fallback: "could not load your cart",
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.CartItem](body, "cart", "items")
}

// CountItems returns the number of cart lines.
func (r *CartResource) CountItems(ctx context.Context) (int, error) {
	items, err := r.Items(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Add puts quantity units of a product in the cart after checking it is in stock.
func (r *CartResource) Add(ctx context.Context, productID int64, quantity int) (string, error) {
	product, err := r.products.Get(ctx, productID)
	if err != nil {
		return "", err
	}
	if product.StockQuantity <= 0 {
		return "", apperrors.NewValidationError("this product is out of stock, please choose another one",
			map[string]any{"productId": productID})
	}

	body, err := r.run(ctx, call{
		method:   http.MethodPost,
		path:     "/cart/add",
		body:     cartLine{ProductID: productID, Quantity: quantity},
		op:       "cart.add",
		fallback: "could not add the product to your cart",
	})
	if err != nil {
		return "", err
	}
	return backendMessage(body), nil
}

// Update sets the quantity of a cart line.
func (r *CartResource) Update(ctx context.Context, productID int64, quantity int) (string, error) {
	body, err := r.run(ctx, call{
		method:   http.MethodPut,
		path:     "/cart/update",
		body:     cartLine{ProductID: productID, Quantity: quantity},
		op:       "cart.update",
		fallback: "could not update the quantity",
	})
	if err != nil {
		return "", err
	}
	return backendMessage(body), nil
}

// Remove deletes a cart line.
func (r *CartResource) Remove(ctx context.Context, productID int64) (string, error) {
	body, err := r.run(ctx, call{
		method:   http.MethodDelete,
		path:     "/cart/remove/" + strconv.FormatInt(productID, 10),
		op:       "cart.remove",
		fallback: "could not remove the product from your cart",
	})
	if err != nil {
		return "", err
	}
	return backendMessage(body), nil
}

// Clear empties the cart.
func (r *CartResource) Clear(ctx context.Context) (string, error) {
	body, err := r.run(ctx, call{
		method:   http.MethodDelete,
		path:     "/cart/clear",
		op:       "cart.clear",
		fallback: "could not clear your cart",
	})
	if err != nil {
		return "", err
	}
	return backendMessage(body), nil
}
