package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/vnshop/storefront/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, page, size int) (domain.OrderPage, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	All(ctx context.Context) ([]domain.Order, error)
}

type orderRepository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]domain.Order
}

// NewOrderRepository returns an in-memory implementation.
func NewOrderRepository() OrderRepository {
	return &orderRepository{nextID: 1, orders: make(map[int64]domain.Order)}
}

func (r *orderRepository) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = r.nextID
	r.nextID++
	stored := *order
	stored.OrderDetails = append([]domain.OrderDetail(nil), order.OrderDetails...)
	r.orders[order.ID] = stored
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	order.OrderDetails = append([]domain.OrderDetail(nil), order.OrderDetails...)
	return &order, nil
}

func (r *orderRepository) ListByUser(_ context.Context, userID int64, page, size int) (domain.OrderPage, error) {
	r.mu.RLock()
	matched := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			matched = append(matched, order)
		}
	}
	r.mu.RUnlock()

	sortNewestFirst(matched)
	start, end := paginate(len(matched), page, size)
	return domain.OrderPage{
		Orders:        matched[start:end],
		TotalPages:    totalPages(int64(len(matched)), size),
		TotalElements: int64(len(matched)),
	}, nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Status = status
	r.orders[id] = order
	return nil
}

func (r *orderRepository) All(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	out := make([]domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		out = append(out, order)
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
}
