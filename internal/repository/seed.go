package repository

import (
	"context"
	"fmt"

	"github.com/vnshop/storefront/internal/domain"
)

// Repositories groups the devserver stores.
type Repositories struct {
	Users      UserRepository
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	Orders     OrderRepository
	Addresses  AddressRepository
}

// NewRepositories builds empty in-memory stores.
func NewRepositories() Repositories {
	return Repositories{
		Users:      NewUserRepository(),
		Products:   NewProductRepository(),
		Categories: NewCategoryRepository(),
		Carts:      NewCartRepository(),
		Orders:     NewOrderRepository(),
		Addresses:  NewAddressRepository(),
	}
}

// SeedAccount describes an account created at startup.
type SeedAccount struct {
	Username string
	Password string
	Email    string
	FullName string
	Type     string
}

// DefaultAccounts are the development logins.
var DefaultAccounts = []SeedAccount{
	{Username: "admin", Password: "admin123", Email: "admin@example.com", FullName: "Store Admin", Type: "ADMIN"},
	{Username: "customer", Password: "customer123", Email: "customer@example.com", FullName: "Nguyễn Văn An", Type: "USER"},
}

var seedCategories = []domain.Category{
	{Name: "Vợt cầu lông", Description: "Rackets"},
	{Name: "Giày cầu lông", Description: "Shoes"},
	{Name: "Áo cầu lông", Description: "Apparel"},
}

var seedProducts = []domain.Product{
	{Name: "Vợt cầu lông Yonex Astrox 99 Pro", Price: 4200000, StockQuantity: 12, CategoryID: 1},
	{Name: "Vợt cầu lông Yonex Astrox 100ZZ", Price: 4500000, StockQuantity: 8, CategoryID: 1},
	{Name: "Vợt cầu lông Victor Auraspeed 90S", Price: 3900000, StockQuantity: 0, CategoryID: 1},
	{Name: "Giày cầu lông Lining AYAT001-1", Price: 1800000, StockQuantity: 20, CategoryID: 2},
	{Name: "Áo cầu lông Yonex 1560EX", Price: 450000, StockQuantity: 40, CategoryID: 3},
	{Name: "Áo cầu lông Lining 6088", Price: 390000, StockQuantity: 35, CategoryID: 3},
}

// Seed fills the stores with development data. hash turns a plaintext password into its stored form.
func Seed(ctx context.Context, repos Repositories, accounts []SeedAccount, hash func(string) (string, error)) error {
	for _, seed := range accounts {
		hashed, err := hash(seed.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", seed.Username, err)
		}
		account := &Account{
			User: domain.User{
				Username: seed.Username,
				Email:    seed.Email,
				FullName: seed.FullName,
				Type:     seed.Type,
				Status:   domain.UserStatusActive,
			},
			PasswordHash: hashed,
			Confirmed:    true,
		}
		if err := repos.Users.Create(ctx, account); err != nil {
			return fmt.Errorf("seed account %s: %w", seed.Username, err)
		}
	}
	for _, category := range seedCategories {
		category := category
		if err := repos.Categories.Create(ctx, &category); err != nil {
			return err
		}
	}
	for _, product := range seedProducts {
		product := product
		if err := repos.Products.Create(ctx, &product); err != nil {
			return err
		}
	}
	return nil
}
