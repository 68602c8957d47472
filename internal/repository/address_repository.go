package repository

import (
	"context"
	"sync"

	"github.com/vnshop/storefront/internal/domain"
)

// AddressRepository stores each user's address book as a whole.
type AddressRepository interface {
	List(ctx context.Context, userID int64) ([]domain.Address, error)
	Replace(ctx context.Context, userID int64, addresses []domain.Address) error
}

type addressRepository struct {
	mu     sync.RWMutex
	nextID int64
	books  map[int64][]domain.Address
}

// NewAddressRepository returns an in-memory implementation.
func NewAddressRepository() AddressRepository {
	return &addressRepository{nextID: 1, books: make(map[int64][]domain.Address)}
}

func (r *addressRepository) List(_ context.Context, userID int64) ([]domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Address{}, r.books[userID]...), nil
}

// Replace stores the given book, assigning IDs to new entries.
func (r *addressRepository) Replace(_ context.Context, userID int64, addresses []domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book := make([]domain.Address, len(addresses))
	for i, addr := range addresses {
		if addr.ID == 0 {
			addr.ID = r.nextID
			r.nextID++
		}
		book[i] = addr
	}
	r.books[userID] = book
	return nil
}
