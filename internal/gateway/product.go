package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vnshop/storefront/internal/domain"
)

const featuredCount = 6

// ProductResource reads the public catalog.
type ProductResource struct {
	c *Client
}

// ProductQuery filters the shop listing.
type ProductQuery struct {
	Page       int
	Size       int
	CategoryID int64
	Keyword    string
}

// Featured returns the first products of the catalog for the home page.
func (r *ProductResource) Featured(ctx context.Context) ([]domain.Product, error) {
	page, err := r.List(ctx, ProductQuery{Page: 0, Size: featuredCount})
	if err != nil {
		return nil, err
	}
	return page.Products, nil
}

// List returns one page of products.
func (r *ProductResource) List(ctx context.Context, q ProductQuery) (domain.ProductPage, error) {
	if q.Size <= 0 {
		q.Size = featuredCount
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if q.CategoryID != 0 {
		query.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}

	var page domain.ProductPage
	err := r.c.getJSON(ctx, call{
		method:    http.MethodGet,
		path:      "/product/list",
		query:     query,
		op:        "product.list",
		fallback:  "could not load products",
		anonymous: true,
	}, &page)
	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	return page, err
}

// Get returns one product.
func (r *ProductResource) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := r.c.getJSON(ctx, call{
		method:    http.MethodGet,
		path:      "/product/" + strconv.FormatInt(id, 10),
		op:        "product.get",
		fallback:  "could not load the product",
		anonymous: true,
	}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
