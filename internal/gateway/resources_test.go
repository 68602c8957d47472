package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnshop/storefront/internal/domain"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

func TestCart_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "busy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"productId": 1, "quantity": 2}}})
	})

	n, err := h.gw.Cart.CountItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCart_GivesUpAfterThreeRetries(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadGateway, map[string]any{"message": "upstream down"})
	})

	_, err := h.gw.Cart.Items(context.Background())
	require.Error(t, err)
	assert.Equal(t, "upstream down", apperrors.ToDomainError(err).Message)
	assert.Equal(t, int32(4), calls.Load())
}

func TestCart_DoesNotRetryClientErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		var calls atomic.Int32
		h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, status, map[string]any{})
		})

		_, err := h.gw.Cart.Clear(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load(), status)
	}
}

func TestCart_AddChecksStockFirst(t *testing.T) {
	var posted atomic.Bool
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/product/9":
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 9, "stockQuantity": 0}})
		case "/cart/add":
			posted.Store(true)
			writeJSON(w, http.StatusOK, map[string]any{"message": "added"})
		}
	})

	_, err := h.gw.Cart.Add(context.Background(), 9, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	assert.False(t, posted.Load())
}

func TestCart_AddPostsLine(t *testing.T) {
	var line cartLine
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/product/4":
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 4, "stockQuantity": 5}})
		case "/cart/add":
			_ = json.NewDecoder(r.Body).Decode(&line)
			writeJSON(w, http.StatusOK, map[string]any{"status": 200, "message": "added to cart"})
		}
	})

	msg, err := h.gw.Cart.Add(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.Equal(t, "added to cart", msg)
	assert.Equal(t, cartLine{ProductID: 4, Quantity: 2}, line)
}

func TestCategories_TolerateEnvelopeShapes(t *testing.T) {
	bodies := map[string]string{
		"bare array":   `[{"id":1,"name":"Rackets"}]`,
		"data array":   `{"status":200,"data":[{"id":1,"name":"Rackets"}]}`,
		"data content": `{"data":{"content":[{"id":1,"name":"Rackets"}],"totalPages":1}}`,
		"named list":   `{"data":{"categories":[{"id":1,"name":"Rackets"}]}}`,
		"single":       `{"data":{"id":1,"name":"Rackets"}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, "", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			categories, err := h.gw.Categories.List(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []domain.Category{{ID: 1, Name: "Rackets"}}, categories)
		})
	}
}

func TestCategories_NullDataIsEmpty(t *testing.T) {
	h := newHarness(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":200,"data":null}`))
	})

	categories, err := h.gw.Categories.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestOrders_GetMergesDetails(t *testing.T) {
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/order/5":
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": 5, "status": "PENDING", "totalAmount": 90}})
		case "/order/details/5":
			writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{{"productId": 2, "quantity": 3, "price": 30}}})
		}
	})

	order, err := h.gw.Orders.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.OrderDetails, 1)
	assert.Equal(t, 3, order.OrderDetails[0].Quantity)
}

func TestOrders_GetWithoutDataIsMalformed(t *testing.T) {
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": nil})
	})

	_, err := h.gw.Orders.Get(context.Background(), 5)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedResponse))
}

func TestOrders_ListMineReadsTotals(t *testing.T) {
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"orders":        []map[string]any{{"id": 1}, {"id": 2}},
			"totalPages":    3,
			"totalElements": 6,
		}})
	})

	page, err := h.gw.Orders.ListMine(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(6), page.TotalElements)
}

func TestUsers_UpdateRoleIsReadModifyWrite(t *testing.T) {
	var written map[string]any
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/user/7":
			writeJSON(w, http.StatusOK, map[string]any{"status": 200, "data": map[string]any{
				"id": 7, "username": "gina", "type": "USER", "loyaltyPoints": 12,
			}})
		case r.Method == http.MethodPut && r.URL.Path == "/user/upd":
			_ = json.NewDecoder(r.Body).Decode(&written)
			writeJSON(w, http.StatusAccepted, map[string]any{"status": 202, "message": "updated"})
		}
	})

	msg, err := h.gw.Users.UpdateRole(context.Background(), 7, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "updated", msg)
	assert.Equal(t, "ADMIN", written["type"])
	assert.Equal(t, "gina", written["username"])
	assert.Equal(t, float64(12), written["loyaltyPoints"])
	assert.Equal(t, float64(7), written["id"])
}

func TestUsers_LoginReadsBareToken(t *testing.T) {
	h := newHarness(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"accessToken": "a.b.c"})
	})

	token, err := h.gw.Users.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", token)
}

func TestUsers_LoginWithoutTokenIsMalformed(t *testing.T) {
	h := newHarness(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": 200})
	})

	_, err := h.gw.Users.Login(context.Background(), "alice", "pw")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMalformedResponse))
}

func TestDashboard_Revenue(t *testing.T) {
	h := newHarness(t, "abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "month", r.URL.Query().Get("period"))
		assert.Equal(t, "7", r.URL.Query().Get("month"))
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"labels":   []string{"01", "05"},
			"datasets": []map[string]any{{"label": "Revenue", "data": []float64{1, 2}}},
		}})
	})

	series, err := h.gw.Dashboard.Revenue(context.Background(), "month", 2025, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "05"}, series.Labels)
	assert.Equal(t, []float64{1, 2}, series.Datasets[0].Data)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(apperrors.NewNetworkUnreachable(nil)))
	assert.True(t, isTransient(apperrors.NewBackendRejected("x", http.StatusTooManyRequests)))
	assert.True(t, isTransient(apperrors.NewBackendRejected("x", http.StatusInternalServerError)))
	assert.False(t, isTransient(apperrors.NewBackendRejected("x", http.StatusBadRequest)))
	assert.False(t, isTransient(apperrors.NewSessionExpired()))
	assert.False(t, isTransient(nil))
}
