package location

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/domain"
)

// Fetcher is the upstream source of administrative units.
type Fetcher interface {
	Provinces(ctx context.Context) ([]domain.Province, error)
	Districts(ctx context.Context, provinceCode int) ([]domain.District, error)
	Wards(ctx context.Context, districtCode int) ([]domain.Ward, error)
}

// Cache holds transformed, sorted collections for the lifetime of the process.
// Each key is fetched at most once, even under concurrent misses. Failures are
// never cached.
type Cache struct {
	fetcher Fetcher
	policy  string
	timeout time.Duration
	logger  *zap.Logger
	group   singleflight.Group

	mu        sync.RWMutex
	provinces []domain.Province
	districts map[int][]domain.District
	wards     map[int][]domain.Ward
}

// NewCache builds an empty cache. policy is config.GeoFailureEmpty or
// config.GeoFailurePropagate. timeout bounds each fill; zero means no bound.
func NewCache(fetcher Fetcher, policy string, timeout time.Duration, logger *zap.Logger) *Cache {
	if policy == "" {
		policy = config.GeoFailureEmpty
	}
	return &Cache{
		fetcher:   fetcher,
		policy:    policy,
		timeout:   timeout,
		logger:    logger,
		districts: make(map[int][]domain.District),
		wards:     make(map[int][]domain.Ward),
	}
}

// Provinces returns every province with display names, sorted.
func (c *Cache) Provinces(ctx context.Context) ([]domain.Province, error) {
	return load(ctx, c, "provinces",
		func() ([]domain.Province, bool) {
			return c.provinces, c.provinces != nil
		},
		func(ctx context.Context) ([]domain.Province, error) {
			raw, err := c.fetcher.Provinces(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]domain.Province, len(raw))
			for i, p := range raw {
				p.DisplayName = ProvinceDisplayName(p.Name, p.DivisionType)
				out[i] = p
			}
			SortByName(out, func(p domain.Province) string { return p.DisplayName })
			return out, nil
		},
		func(v []domain.Province) { c.provinces = v },
	)
}

// Districts returns the districts of a province with display names, sorted.
func (c *Cache) Districts(ctx context.Context, provinceCode int) ([]domain.District, error) {
	return load(ctx, c, "districts:"+strconv.Itoa(provinceCode),
		func() ([]domain.District, bool) {
			v, ok := c.districts[provinceCode]
			return v, ok
		},
		func(ctx context.Context) ([]domain.District, error) {
			raw, err := c.fetcher.Districts(ctx, provinceCode)
			if err != nil {
				return nil, err
			}
			out := make([]domain.District, len(raw))
			for i, d := range raw {
				d.DisplayName = DistrictDisplayName(d.Name, d.DivisionType)
				out[i] = d
			}
			SortByName(out, func(d domain.District) string { return d.DisplayName })
			return out, nil
		},
		func(v []domain.District) { c.districts[provinceCode] = v },
	)
}

// Wards returns the wards of a district with display names, sorted.
func (c *Cache) Wards(ctx context.Context, districtCode int) ([]domain.Ward, error) {
	return load(ctx, c, "wards:"+strconv.Itoa(districtCode),
		func() ([]domain.Ward, bool) {
			v, ok := c.wards[districtCode]
			return v, ok
		},
		func(ctx context.Context) ([]domain.Ward, error) {
			raw, err := c.fetcher.Wards(ctx, districtCode)
			if err != nil {
				return nil, err
			}
			out := make([]domain.Ward, len(raw))
			for i, w := range raw {
				w.DisplayName = WardDisplayName(w.Name, w.DivisionType)
				out[i] = w
			}
			SortByName(out, func(w domain.Ward) string { return w.DisplayName })
			return out, nil
		},
		func(v []domain.Ward) { c.wards[districtCode] = v },
	)
}

// load serves key from the cache or fills it once. lookup and store run under c.mu.
// The fill is detached from the caller that started it, so a cancelled caller
// neither aborts it for the others nor waits for it.
func load[T any](ctx context.Context, c *Cache, key string, lookup func() ([]T, bool), fill func(context.Context) ([]T, error), store func([]T)) ([]T, error) {
	c.mu.RLock()
	cached, ok := lookup()
	c.mu.RUnlock()
	if ok {
		return clone(cached), nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := lookup()
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fillCtx, cancel := c.fillContext(ctx)
		defer cancel()
		fresh, err := fill(fillCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		store(fresh)
		c.mu.Unlock()
		return fresh, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	if res.Err != nil {
		if c.policy == config.GeoFailurePropagate {
			return nil, res.Err
		}
		c.logger.Warn("reference data lookup failed, returning empty collection", zap.String("key", key), zap.Error(res.Err))
		return []T{}, nil
	}
	return clone(res.Val.([]T)), nil
}

func (c *Cache) fillContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, c.timeout)
}

func clone[T any](items []T) []T {
	return append(make([]T, 0, len(items)), items...)
}
