package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vnshop/storefront/internal/domain"
)

// ProductFilter captures shop search parameters.
type ProductFilter struct {
	CategoryID int64
	Keyword    string
	Page       int
	Size       int
}

// ProductRepository encapsulates catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) (domain.ProductPage, error)
	AdjustStock(ctx context.Context, id int64, delta int) error
	Count(ctx context.Context) int64
}

// CategoryRepository encapsulates category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
}

type productRepository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]domain.Product
}

// NewProductRepository returns an in-memory implementation.
func NewProductRepository() ProductRepository {
	return &productRepository{nextID: 1, products: make(map[int64]domain.Product)}
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &product, nil
}

func (r *productRepository) List(_ context.Context, filter ProductFilter) (domain.ProductPage, error) {
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))

	r.mu.RLock()
	matched := make([]domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.CategoryID != 0 && product.CategoryID != filter.CategoryID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(product.Name), keyword) {
			continue
		}
		matched = append(matched, product)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	start, end := paginate(len(matched), filter.Page, filter.Size)
	return domain.ProductPage{
		Products:      matched[start:end],
		TotalPages:    totalPages(int64(len(matched)), filter.Size),
		TotalElements: int64(len(matched)),
		CurrentPage:   filter.Page,
	}, nil
}

// AdjustStock applies delta, refusing to drive stock below zero.
func (r *productRepository) AdjustStock(_ context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return ErrNotFound
	}
	if product.StockQuantity+delta < 0 {
		return ErrConflict
	}
	product.StockQuantity += delta
	r.products[id] = product
	return nil
}

func (r *productRepository) Count(_ context.Context) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products))
}

type categoryRepository struct {
	mu         sync.RWMutex
	categories []domain.Category
}

// NewCategoryRepository returns an in-memory implementation.
func NewCategoryRepository() CategoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category.ID = int64(len(r.categories) + 1)
	r.categories = append(r.categories, *category)
	return nil
}

func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Category(nil), r.categories...), nil
}
