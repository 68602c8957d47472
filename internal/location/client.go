// Package location resolves Vietnamese administrative units (provinces,
// districts, wards) from the public geography API and caches them.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/domain"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// Client calls the geography API. Requests are throttled client-side.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient builds a client. A nil httpClient gets one with the configured timeout.
func NewClient(cfg config.GeoConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// Provinces lists every province.
func (c *Client) Provinces(ctx context.Context) ([]domain.Province, error) {
	var provinces []domain.Province
	if err := c.get(ctx, "/p/", &provinces); err != nil {
		return nil, err
	}
	if provinces == nil {
		return nil, apperrors.NewMalformedResponse("province", errors.New("expected an array"))
	}
	return provinces, nil
}

// Districts lists the districts of a province.
func (c *Client) Districts(ctx context.Context, provinceCode int) ([]domain.District, error) {
	var body struct {
		Districts *[]domain.District `json:"districts"`
	}
	if err := c.get(ctx, "/p/"+strconv.Itoa(provinceCode)+"?depth=2", &body); err != nil {
		return nil, err
	}
	if body.Districts == nil {
		return nil, apperrors.NewMalformedResponse("district", errors.New("missing districts"))
	}
	districts := *body.Districts
	for i := range districts {
		if districts[i].ProvinceCode == 0 {
			districts[i].ProvinceCode = provinceCode
		}
	}
	return districts, nil
}

// Wards lists the wards of a district.
func (c *Client) Wards(ctx context.Context, districtCode int) ([]domain.Ward, error) {
	var body struct {
		Wards *[]domain.Ward `json:"wards"`
	}
	if err := c.get(ctx, "/d/"+strconv.Itoa(districtCode)+"?depth=2", &body); err != nil {
		return nil, err
	}
	if body.Wards == nil {
		return nil, apperrors.NewMalformedResponse("ward", errors.New("missing wards"))
	}
	wards := *body.Wards
	for i := range wards {
		if wards[i].DistrictCode == 0 {
			wards[i].DistrictCode = districtCode
		}
	}
	return wards, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewNetworkUnreachable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("geography request failed", zap.String("path", path), zap.Error(err))
		return apperrors.NewNetworkUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkUnreachable(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusNotFound {
			return apperrors.NewNotFound("administrative unit", map[string]any{"path": path})
		}
		return apperrors.NewBackendRejected(fmt.Sprintf("geography lookup failed with status %d", resp.StatusCode), resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewMalformedResponse("geography", err)
	}
	return nil
}
