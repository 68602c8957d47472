package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/repository"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// CatalogService serves products, categories, carts and saved addresses for the devserver.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	carts      repository.CartRepository
	addresses  repository.AddressRepository
	logger     *zap.Logger
}

// NewCatalogService builds the service.
func NewCatalogService(repos repository.Repositories, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products:   repos.Products,
		categories: repos.Categories,
		carts:      repos.Carts,
		addresses:  repos.Addresses,
		logger:     logger,
	}
}

// ListProducts returns a page of products.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) (domain.ProductPage, error) {
	return s.products.List(ctx, filter)
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// Categories lists every category.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// CartItems returns the user's cart with current product names and prices.
func (s *CatalogService) CartItems(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	items, err := s.carts.Items(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range items {
		if product, err := s.products.GetByID(ctx, items[i].ProductID); err == nil {
			items[i].ProductName = product.Name
			items[i].Price = product.Price
		}
	}
	return items, nil
}

// AddToCart increases the quantity of a product line, creating it when absent.
func (s *CatalogService) AddToCart(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return apperrors.NewValidationError("quantity must be positive", map[string]any{"quantity": quantity})
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	current := 0
	if existing, err := s.carts.Get(ctx, userID, productID); err == nil {
		current = existing.Quantity
	}
	if current+quantity > product.StockQuantity {
		return apperrors.NewValidationError("not enough stock", map[string]any{
			"productId": productID,
			"available": product.StockQuantity,
		})
	}
	return s.carts.Put(ctx, userID, domain.CartItem{
		ProductID:   productID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    current + quantity,
	})
}

// UpdateCart sets the quantity of a line. Zero removes it.
func (s *CatalogService) UpdateCart(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity < 0 {
		return apperrors.NewValidationError("quantity must not be negative", map[string]any{"quantity": quantity})
	}
	if _, err := s.carts.Get(ctx, userID, productID); err != nil {
		return s.cartLineError(err, productID)
	}
	if quantity == 0 {
		return s.RemoveFromCart(ctx, userID, productID)
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.StockQuantity {
		return apperrors.NewValidationError("not enough stock", map[string]any{
			"productId": productID,
			"available": product.StockQuantity,
		})
	}
	return s.carts.Put(ctx, userID, domain.CartItem{
		ProductID:   productID,
		ProductName: product.Name,
		Price:       product.Price,
		Quantity:    quantity,
	})
}

// RemoveFromCart drops a line.
func (s *CatalogService) RemoveFromCart(ctx context.Context, userID, productID int64) error {
	if err := s.carts.Remove(ctx, userID, productID); err != nil {
		return s.cartLineError(err, productID)
	}
	return nil
}

// ClearCart empties the cart.
func (s *CatalogService) ClearCart(ctx context.Context, userID int64) error {
	return s.carts.Clear(ctx, userID)
}

func (s *CatalogService) cartLineError(err error, productID int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("cart item", map[string]any{"productId": productID})
	}
	return apperrors.MapError(err)
}

// Addresses returns the user's saved addresses.
func (s *CatalogService) Addresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	return s.addresses.List(ctx, userID)
}

// ReplaceAddresses stores the full address list. At most one entry may be the default.
func (s *CatalogService) ReplaceAddresses(ctx context.Context, userID int64, addresses []domain.Address) error {
	defaults := 0
	for i, address := range addresses {
		if address.RecipientName == "" || address.Phone == "" || address.Detail == "" {
			return apperrors.NewValidationError("recipient name, phone and detail are required", map[string]any{"index": i})
		}
		if address.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return apperrors.NewValidationError("only one address can be the default", nil)
	}
	return s.addresses.Replace(ctx, userID, addresses)
}
