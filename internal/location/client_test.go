package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/config"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GeoConfig{BaseURL: srv.URL, TimeoutSeconds: 2, RatePerSecond: 100, Burst: 10}, srv.Client(), zap.NewNop())
}

func TestClient_Districts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/p/1", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("depth"))
		_, _ = w.Write([]byte(`{"code":1,"name":"Thành phố Hà Nội","districts":[{"code":1,"name":"Quận Ba Đình","division_type":"quận"}]}`))
	})

	districts, err := c.Districts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, districts, 1)
	assert.Equal(t, "Quận Ba Đình", districts[0].Name)
	assert.Equal(t, 1, districts[0].ProvinceCode)
}

func TestClient_MissingKeyIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1,"name":"Quận Ba Đình"}`))
	})

	_, err := c.Wards(context.Background(), 1)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedResponse))
}

func TestClient_Provinces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/p/", r.URL.Path)
		_, _ = w.Write([]byte(`[{"code":89,"name":"Tỉnh An Giang","division_type":"tỉnh","codename":"tinh_an_giang"}]`))
	})

	provinces, err := c.Provinces(context.Background())
	require.NoError(t, err)
	require.Len(t, provinces, 1)
	assert.Equal(t, "tinh_an_giang", provinces[0].Codename)
}

func TestClient_ServerErrorIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Provinces(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBackendRejected))
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(config.GeoConfig{BaseURL: url, TimeoutSeconds: 1}, nil, zap.NewNop())
	_, err := c.Provinces(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNetworkUnreachable))
}
