package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnshop/storefront/internal/config"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
	AccessToken string `json:"accessToken"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(context.Background(), ServerOptions{
		App: config.AppConfig{Name: "devserver-test", Version: "test"},
		DevServer: config.DevServerConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			MailFrom:              "shop@example.com",
		},
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return srv
}

func call(t *testing.T, srv *Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func login(t *testing.T, srv *Server, username, password string) string {
	t.Helper()
	status, env := call(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, env.AccessToken)
	return env.AccessToken
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	status, _ := call(t, srv, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, srv, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogin_Failures(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"username": "customer", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "wrong username or password", env.Message)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)

	status, env = call(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"username": "customer"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestAuthorization(t *testing.T) {
	srv := newTestServer(t)
	customer := login(t, srv, "customer", "customer123")
	admin := login(t, srv, "admin", "admin123")

	status, env := call(t, srv, http.MethodGet, "/cart/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Code)

	status, _ = call(t, srv, http.MethodGet, "/cart/items", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = call(t, srv, http.MethodGet, "/admin/dashboard/stats", customer, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = call(t, srv, http.MethodGet, "/admin/dashboard/stats", admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = call(t, srv, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestProductList_FirstPageForZeroIndex(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, srv, http.MethodGet, "/product/list?page=0&size=4", "", nil)
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Products      []struct{ ID int64 } `json:"products"`
		TotalElements int64                `json:"totalElements"`
		TotalPages    int                  `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Products, 4)
	assert.Equal(t, int64(1), page.Products[0].ID)
	assert.Equal(t, int64(6), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
}

func TestOrderLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	customer := login(t, srv, "customer", "customer123")
	admin := login(t, srv, "admin", "admin123")

	status, _ := call(t, srv, http.MethodPost, "/cart/add", customer, map[string]any{"productId": 5, "quantity": 3})
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, srv, http.MethodPost, "/cart/add", customer, map[string]any{"productId": 3, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, status, "product 3 has no stock")
	assert.Equal(t, "not enough stock", env.Message)

	status, env = call(t, srv, http.MethodPost, "/order/create", customer, map[string]any{
		"items":           []map[string]any{{"productId": 5, "quantity": 3}},
		"shippingAddress": "12 Lý Thường Kiệt, Hoàn Kiếm, Hà Nội",
		"shippingFee":     30000,
		"paymentMethod":   "COD",
	})
	require.Equal(t, http.StatusCreated, status)
	var order struct {
		ID          int64   `json:"id"`
		Code        string  `json:"orderCode"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.NotEmpty(t, order.Code)
	assert.Equal(t, "PENDING", order.Status)
	assert.Equal(t, float64(3*450000+30000), order.TotalAmount)

	product, err := srv.Repositories.Products.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 37, product.StockQuantity)

	items, err := srv.Repositories.Carts.Items(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, items, "ordered lines leave the cart")

	status, _ = call(t, srv, http.MethodPut, "/order/1/status", customer, map[string]string{"status": "CONFIRMED"})
	assert.Equal(t, http.StatusForbidden, status)

	for _, next := range []string{"CONFIRMED", "SHIPPING", "COMPLETED"} {
		status, env = call(t, srv, http.MethodPut, "/order/1/status", admin, map[string]string{"status": next})
		require.Equal(t, http.StatusOK, status, env.Message)
	}

	mails := srv.Outbox.Sent()
	require.Len(t, mails, 3)
	assert.Equal(t, "customer@example.com", mails[2].To)
	assert.Contains(t, mails[2].Body, "from SHIPPING to COMPLETED")

	status, env = call(t, srv, http.MethodPut, "/order/1/cancel", customer, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env = call(t, srv, http.MethodGet, "/admin/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		TotalOrders          int64   `json:"totalOrders"`
		TotalRevenue         float64 `json:"totalRevenue"`
		TotalCompletedOrders int64   `json:"totalCompletedOrders"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalCompletedOrders)
	assert.Equal(t, order.TotalAmount, stats.TotalRevenue)

	status, env = call(t, srv, http.MethodGet, "/admin/dashboard/top-products?limit=1", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var top []struct {
		ID       int64 `json:"id"`
		Quantity int64 `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &top))
	require.Len(t, top, 1)
	assert.Equal(t, int64(5), top[0].ID)
	assert.Equal(t, int64(3), top[0].Quantity)
}

func TestCancel_RestocksAndHidesForeignOrders(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	customer := login(t, srv, "customer", "customer123")
	admin := login(t, srv, "admin", "admin123")

	status, _ := call(t, srv, http.MethodPost, "/order/create", admin, map[string]any{
		"items":           []map[string]any{{"productId": 1, "quantity": 2}},
		"shippingAddress": "1 Nguyễn Huệ, Quận 1, Hồ Chí Minh",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = call(t, srv, http.MethodGet, "/order/1", customer, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, srv, http.MethodPut, "/order/1/cancel", admin, nil)
	require.Equal(t, http.StatusOK, status)

	product, err := srv.Repositories.Products.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, product.StockQuantity)
}

func TestAddresses_SingleDefault(t *testing.T) {
	srv := newTestServer(t)
	customer := login(t, srv, "customer", "customer123")

	address := map[string]any{
		"recipientName": "Nguyễn Văn An",
		"phone":         "0901234567",
		"province":      "Thành phố Hà Nội",
		"district":      "Quận Hoàn Kiếm",
		"ward":          "Phường Hàng Bạc",
		"detail":        "12 Hàng Bạc",
		"isDefault":     true,
	}
	status, _ := call(t, srv, http.MethodPut, "/address/upd", customer, []any{address, address})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, srv, http.MethodPut, "/address/upd", customer, []any{address})
	require.Equal(t, http.StatusOK, status)

	status, env := call(t, srv, http.MethodGet, "/address/list", customer, nil)
	require.Equal(t, http.StatusOK, status)
	var list []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.NotZero(t, list[0].ID)
}

func TestRegisterAndConfirm(t *testing.T) {
	srv := newTestServer(t)

	status, env := call(t, srv, http.MethodPost, "/user/add", "", map[string]string{
		"username": "minh",
		"email":    "minh@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, env.Message, "confirm")

	status, _ = call(t, srv, http.MethodPost, "/user/add", "", map[string]string{
		"username": "MINH",
		"email":    "minh2@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, env = call(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"username": "minh", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	mails := srv.Outbox.Sent()
	require.Len(t, mails, 1)
	code := mails[0].Body[strings.LastIndex(mails[0].Body, ": ")+2:]
	code = strings.TrimSpace(code)

	status, _ = call(t, srv, http.MethodGet, "/user/confirm-email?secretCode=wrong", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, srv, http.MethodGet, "/user/confirm-email?secretCode="+code, "", nil)
	require.Equal(t, http.StatusOK, status)

	token := login(t, srv, "minh", "secret123")
	status, env = call(t, srv, http.MethodGet, "/user/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"ACTIVE"`)
}

func TestUserAdministration(t *testing.T) {
	srv := newTestServer(t)
	customer := login(t, srv, "customer", "customer123")
	admin := login(t, srv, "admin", "admin123")

	status, _ := call(t, srv, http.MethodPut, "/user/upd", customer, map[string]any{"id": 1, "fullName": "Hacker"})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, srv, http.MethodPut, "/user/upd", customer, map[string]any{"phone": "0912345678", "type": "ADMIN"})
	require.Equal(t, http.StatusOK, status)
	account, err := srv.Repositories.Users.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "0912345678", account.Phone)
	assert.Equal(t, "USER", account.Type, "only admins change the type")

	status, _ = call(t, srv, http.MethodPut, "/user/upd", admin, map[string]any{"id": 2, "type": "ROLE_ADMIN"})
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, srv, http.MethodGet, "/admin/dashboard/stats", customer, nil)
	assert.Equal(t, http.StatusOK, status, "roles are read from the account on every request")

	status, env := call(t, srv, http.MethodGet, "/user/list?page=1&size=10&keyword=cust", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"totalElements":1`)

	status, _ = call(t, srv, http.MethodDelete, "/user/del/1", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = call(t, srv, http.MethodDelete, "/user/del/2", admin, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, srv, http.MethodGet, "/cart/items", customer, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
