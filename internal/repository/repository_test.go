package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnshop/storefront/internal/domain"
)

func seeded(t *testing.T) Repositories {
	t.Helper()
	repos := NewRepositories()
	plain := func(p string) (string, error) { return "hashed:" + p, nil }
	require.NoError(t, Seed(context.Background(), repos, DefaultAccounts, plain))
	return repos
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name               string
		total, page, size  int
		wantStart, wantEnd int
	}{
		{"first page", 6, 1, 4, 0, 4},
		{"zero page is first", 6, 0, 4, 0, 4},
		{"last partial page", 6, 2, 4, 4, 6},
		{"past the end", 6, 5, 4, 6, 6},
		{"default size", 25, 2, 0, 10, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := paginate(tc.total, tc.page, tc.size)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
	assert.Equal(t, 2, totalPages(6, 4))
	assert.Equal(t, 0, totalPages(6, 0))
}

func TestSeed(t *testing.T) {
	repos := seeded(t)
	ctx := context.Background()

	admin, err := repos.Users.GetByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "hashed:admin123", admin.PasswordHash)
	assert.Equal(t, domain.RoleSet{"ROLE_ADMIN", "ROLE_USER"}, admin.Roles())

	customer, err := repos.Users.GetByEmail(ctx, "customer@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSet{"ROLE_USER"}, customer.Roles())

	categories, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
	assert.Equal(t, int64(6), repos.Products.Count(ctx))
}

func TestUsers_ConflictAndSecretCode(t *testing.T) {
	repos := seeded(t)
	ctx := context.Background()

	err := repos.Users.Create(ctx, &Account{User: domain.User{Username: "Customer", Email: "new@example.com"}})
	assert.ErrorIs(t, err, ErrConflict)

	account := &Account{User: domain.User{Username: "mai", Email: "mai@example.com"}, SecretCode: "abc"}
	require.NoError(t, repos.Users.Create(ctx, account))
	assert.Equal(t, int64(3), account.ID)
	assert.NotEmpty(t, account.CreatedAt)

	found, err := repos.Users.GetBySecretCode(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "mai", found.Username)

	_, err = repos.Users.GetBySecretCode(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repos.Users.Delete(ctx, account.ID))
	assert.ErrorIs(t, repos.Users.Delete(ctx, account.ID), ErrNotFound)
}

func TestProducts_FilterAndStock(t *testing.T) {
	repos := seeded(t)
	ctx := context.Background()

	page, err := repos.Products.List(ctx, ProductFilter{CategoryID: 1, Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)

	page, err = repos.Products.List(ctx, ProductFilter{Keyword: "LINING", Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)

	assert.ErrorIs(t, repos.Products.AdjustStock(ctx, 3, -1), ErrConflict)
	require.NoError(t, repos.Products.AdjustStock(ctx, 3, 2))
	product, err := repos.Products.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, product.StockQuantity)
	assert.ErrorIs(t, repos.Products.AdjustStock(ctx, 42, 1), ErrNotFound)
}

func TestCart_UpsertAndRemove(t *testing.T) {
	carts := NewCartRepository()
	ctx := context.Background()

	require.NoError(t, carts.Put(ctx, 7, domain.CartItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, carts.Put(ctx, 7, domain.CartItem{ProductID: 1, Quantity: 3}))
	require.NoError(t, carts.Put(ctx, 7, domain.CartItem{ProductID: 2, Quantity: 1}))

	items, err := carts.Items(ctx, 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)

	require.NoError(t, carts.Remove(ctx, 7, 1))
	assert.ErrorIs(t, carts.Remove(ctx, 7, 1), ErrNotFound)

	require.NoError(t, carts.Clear(ctx, 7))
	items, err = carts.Items(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrders_ListByUserNewestFirst(t *testing.T) {
	orders := NewOrderRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, orders.Create(ctx, &domain.Order{UserID: 2, Status: domain.OrderStatusPending}))
	}
	require.NoError(t, orders.Create(ctx, &domain.Order{UserID: 1}))

	page, err := orders.ListByUser(ctx, 2, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, int64(3), page.Orders[0].ID)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)

	require.NoError(t, orders.UpdateStatus(ctx, 1, domain.OrderStatusCancelled))
	order, err := orders.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, order.Status)
	assert.ErrorIs(t, orders.UpdateStatus(ctx, 99, domain.OrderStatusCancelled), ErrNotFound)
}
