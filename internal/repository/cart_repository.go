package repository

import (
	"context"
	"sync"

	"github.com/vnshop/storefront/internal/domain"
)

// CartRepository stores one cart per user, keyed by product.
type CartRepository interface {
	Items(ctx context.Context, userID int64) ([]domain.CartItem, error)
	Put(ctx context.Context, userID int64, item domain.CartItem) error
	Get(ctx context.Context, userID, productID int64) (*domain.CartItem, error)
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}

type cartRepository struct {
	mu    sync.RWMutex
	carts map[int64][]domain.CartItem
}

// NewCartRepository returns an in-memory implementation.
func NewCartRepository() CartRepository {
	return &cartRepository{carts: make(map[int64][]domain.CartItem)}
}

func (r *cartRepository) Items(_ context.Context, userID int64) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.CartItem{}, r.carts[userID]...), nil
}

// Put inserts the item or replaces the line for the same product.
func (r *cartRepository) Put(_ context.Context, userID int64, item domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[userID]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i] = item
			return nil
		}
	}
	r.carts[userID] = append(items, item)
	return nil
}

func (r *cartRepository) Get(_ context.Context, userID, productID int64) (*domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.carts[userID] {
		if item.ProductID == productID {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *cartRepository) Remove(_ context.Context, userID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			r.carts[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *cartRepository) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
