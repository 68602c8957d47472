package dto

import "github.com/vnshop/storefront/internal/domain"

// CartLineRequest payload for cart add and update.
type CartLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderStatusRequest payload for PUT /order/{id}/status.
type OrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// CartResponse wraps the cart lines.
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
}
