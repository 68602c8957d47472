package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/repository"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

const orderTimeLayout = time.RFC3339

var orderTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPending:   {domain.OrderStatusConfirmed, domain.OrderStatusCancelled},
	domain.OrderStatusConfirmed: {domain.OrderStatusShipping, domain.OrderStatusCancelled},
	domain.OrderStatusShipping:  {domain.OrderStatusCompleted},
}

// OrderService manages checkout, order lifecycle and the admin dashboard on the devserver.
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	users    repository.UserRepository
	events   events.Dispatcher
	now      func() time.Time
	logger   *zap.Logger
}

// NewOrderService builds the service.
func NewOrderService(repos repository.Repositories, dispatcher events.Dispatcher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   repos.Orders,
		products: repos.Products,
		carts:    repos.Carts,
		users:    repos.Users,
		events:   dispatcher,
		now:      time.Now,
		logger:   logger,
	}
}

// Create places an order, reserving stock and removing the ordered lines from the cart.
func (s *OrderService) Create(ctx context.Context, userID int64, req domain.NewOrder) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("order has no items", nil)
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, apperrors.NewValidationError("shipping address is required", nil)
	}

	details := make([]domain.OrderDetail, 0, len(req.Items))
	total := req.ShippingFee
	reserved := make([]domain.OrderDetail, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			s.release(ctx, reserved)
			return nil, apperrors.NewValidationError("quantity must be positive", map[string]any{"productId": item.ProductID})
		}
		product, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			s.release(ctx, reserved)
			return nil, apperrors.NewNotFound("product", map[string]any{"id": item.ProductID})
		}
		if err := s.products.AdjustStock(ctx, product.ID, -item.Quantity); err != nil {
			s.release(ctx, reserved)
			if errors.Is(err, repository.ErrConflict) {
				return nil, apperrors.NewValidationError(fmt.Sprintf("%s is out of stock", product.Name), map[string]any{
					"productId": product.ID,
					"available": product.StockQuantity,
				})
			}
			return nil, apperrors.MapError(err)
		}
		detail := domain.OrderDetail{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		}
		reserved = append(reserved, detail)
		details = append(details, detail)
		total += product.Price * float64(item.Quantity)
	}

	order := &domain.Order{
		Code:            strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		TotalAmount:     total,
		ShippingFee:     req.ShippingFee,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       s.now().UTC().Format(orderTimeLayout),
		OrderDetails:    details,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.release(ctx, reserved)
		return nil, apperrors.MapError(err)
	}
	for _, detail := range details {
		_ = s.carts.Remove(ctx, userID, detail.ProductID)
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_code", order.Code),
		zap.Int64("user_id", userID),
		zap.Float64("total", order.TotalAmount))
	return order, nil
}

func (s *OrderService) release(ctx context.Context, details []domain.OrderDetail) {
	for _, detail := range details {
		if err := s.products.AdjustStock(ctx, detail.ProductID, detail.Quantity); err != nil {
			s.logger.Warn("failed to release reserved stock", zap.Int64("product_id", detail.ProductID), zap.Error(err))
		}
	}
}

// Get returns an order visible to actor.
func (s *OrderService) Get(ctx context.Context, actor Actor, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if order.UserID != actor.UserID && !actor.IsAdmin {
		return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
	}
	return order, nil
}

// Details returns the product lines of an order.
func (s *OrderService) Details(ctx context.Context, actor Actor, id int64) ([]domain.OrderDetail, error) {
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return order.OrderDetails, nil
}

// ListByUser returns a page of a user's orders.
func (s *OrderService) ListByUser(ctx context.Context, userID int64, page, size int) (domain.OrderPage, error) {
	return s.orders.ListByUser(ctx, userID, page, size)
}

// Cancel cancels a pending or confirmed order and restocks its products.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, id int64) (*domain.Order, error) {
	return s.transition(ctx, actor, id, domain.OrderStatusCancelled)
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id int64, status domain.OrderStatus) (*domain.Order, error) {
	status = domain.OrderStatus(strings.ToUpper(string(status)))
	if _, known := orderTransitions[status]; !known && status != domain.OrderStatusCompleted && status != domain.OrderStatusCancelled {
		return nil, apperrors.NewValidationError("unknown order status", map[string]any{"status": status})
	}
	return s.transition(ctx, actor, id, status)
}

func (s *OrderService) transition(ctx context.Context, actor Actor, id int64, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(order.Status, next) {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("cannot change order from %s to %s", order.Status, next),
			map[string]any{"id": id},
		)
	}
	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, apperrors.MapError(err)
	}
	if next == domain.OrderStatusCancelled {
		s.release(ctx, order.OrderDetails)
	}
	previous := order.Status
	order.Status = next
	if s.events != nil {
		_ = s.events.Publish(ctx, events.New(events.EventOrderStatusChanged, events.OrderStatusChangedPayload{
			OrderID:   order.ID,
			OrderCode: order.Code,
			UserID:    order.UserID,
			OldStatus: previous,
			NewStatus: next,
		}))
	}
	return order, nil
}

func canTransition(from, to domain.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Customer returns the account that placed an order.
func (s *OrderService) Customer(ctx context.Context, id int64) (*repository.Account, error) {
	order, err := s.Get(ctx, Actor{IsAdmin: true}, id)
	if err != nil {
		return nil, err
	}
	account, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": order.UserID})
	}
	return account, nil
}

// Stats aggregates the dashboard overview.
func (s *OrderService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return domain.DashboardStats{}, apperrors.MapError(err)
	}
	stats := domain.DashboardStats{
		TotalOrders:   int64(len(orders)),
		TotalUsers:    s.users.Count(ctx),
		TotalProducts: s.products.Count(ctx),
	}
	for _, order := range orders {
		if order.Status == domain.OrderStatusCompleted {
			stats.TotalCompletedOrders++
			stats.TotalRevenue += order.TotalAmount
		}
	}
	return stats, nil
}

// Revenue buckets completed-order revenue by month of year, or by day when month is set.
func (s *OrderService) Revenue(ctx context.Context, year, month int) (domain.RevenueSeries, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	if month < 0 || month > 12 {
		return domain.RevenueSeries{}, apperrors.NewValidationError("month must be between 1 and 12", map[string]any{"month": month})
	}

	var labels []string
	if month == 0 {
		for m := time.January; m <= time.December; m++ {
			labels = append(labels, m.String()[:3])
		}
	} else {
		days := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		for d := 1; d <= days; d++ {
			labels = append(labels, fmt.Sprintf("%02d", d))
		}
	}
	data := make([]float64, len(labels))

	orders, err := s.orders.All(ctx)
	if err != nil {
		return domain.RevenueSeries{}, apperrors.MapError(err)
	}
	for _, order := range orders {
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		placed, err := time.Parse(orderTimeLayout, order.CreatedAt)
		if err != nil || placed.Year() != year {
			continue
		}
		switch {
		case month == 0:
			data[placed.Month()-1] += order.TotalAmount
		case int(placed.Month()) == month:
			data[placed.Day()-1] += order.TotalAmount
		}
	}

	return domain.RevenueSeries{
		Labels:   labels,
		Datasets: []domain.RevenueDataset{{Label: "Revenue", Data: data}},
	}, nil
}

// RecentOrders returns the newest orders with the customer's display name.
func (s *OrderService) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	out := make([]domain.RecentOrder, 0, len(orders))
	for _, order := range orders {
		name := ""
		if account, err := s.users.GetByID(ctx, order.UserID); err == nil {
			name = account.FullName
			if name == "" {
				name = account.Username
			}
		}
		out = append(out, domain.RecentOrder{
			ID:           order.ID,
			CustomerName: name,
			CreatedAt:    order.CreatedAt,
			Status:       order.Status,
			Total:        order.TotalAmount,
		})
	}
	return out, nil
}

// TopProducts ranks products by quantity sold across non-cancelled orders.
func (s *OrderService) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totals := make(map[int64]*domain.TopProduct)
	for _, order := range orders {
		if order.Status == domain.OrderStatusCancelled {
			continue
		}
		for _, detail := range order.OrderDetails {
			row, ok := totals[detail.ProductID]
			if !ok {
				row = &domain.TopProduct{ID: detail.ProductID, ProductName: detail.ProductName}
				totals[detail.ProductID] = row
			}
			row.Quantity += int64(detail.Quantity)
			row.Revenue += detail.Price * float64(detail.Quantity)
		}
	}

	out := make([]domain.TopProduct, 0, len(totals))
	for _, row := range totals {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
