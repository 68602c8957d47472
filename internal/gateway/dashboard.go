package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vnshop/storefront/internal/domain"
)

// DashboardResource reads admin statistics.
type DashboardResource struct {
	c       *Client
	timeout time.Duration
}

// Stats returns the overview counters.
func (r *DashboardResource) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodGet,
		path:     "/admin/dashboard/stats",
		op:       "dashboard.stats",
		fallback: "could not load dashboard statistics",
		timeout:  r.timeout,
	}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Revenue returns the revenue series for a year, or for one month when month > 0.
func (r *DashboardResource) Revenue(ctx context.Context, period string, year, month int) (*domain.RevenueSeries, error) {
	if period == "" {
		period = "year"
	}
	query := url.Values{}
	query.Set("period", period)
	query.Set("year", strconv.Itoa(year))
	if month > 0 {
		query.Set("month", strconv.Itoa(month))
	}

	var series domain.RevenueSeries
	if err := r.c.getJSON(ctx, call{
		method:   http.MethodGet,
		path:     "/admin/dashboard/revenue",
		query:    query,
		op:       "dashboard.revenue",
		fallback: "could not load revenue statistics",
		timeout:  r.timeout,
	}, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

// RecentOrders returns the latest orders.
func (r *DashboardResource) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	body, err := r.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/admin/dashboard/recent-orders",
		query:    limitQuery(limit),
		op:       "dashboard.recent_orders",
		fallback: "could not load recent orders",
		timeout:  r.timeout,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.RecentOrder](body, "recent orders")
}

// TopProducts returns the best sellers.
func (r *DashboardResource) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	body, err := r.c.do(ctx, call{
		method:   http.MethodGet,
		path:     "/admin/dashboard/top-products",
		query:    limitQuery(limit),
		op:       "dashboard.top_products",
		fallback: "could not load top products",
		timeout:  r.timeout,
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.TopProduct](body, "top products")
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		limit = 10
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
