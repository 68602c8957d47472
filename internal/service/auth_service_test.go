package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/vnshop/storefront/internal/api/http"
	"github.com/vnshop/storefront/internal/app"
	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/router"
	"github.com/vnshop/storefront/internal/storage"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

type stack struct {
	server    *httptransport.Server
	http      *httptest.Server
	store     *storage.Memory
	cfg       *config.Config
	cartCalls atomic.Int32
}

func newStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()

	srv, err := httptransport.NewServer(ctx, httptransport.ServerOptions{
		App: config.AppConfig{Name: "devserver-test"},
		DevServer: config.DevServerConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			MailFrom:              "shop@example.com",
		},
	})
	require.NoError(t, err)

	s := &stack{server: srv, store: storage.NewMemory()}
	handler := adaptor.FiberApp(srv.App)
	s.http = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cart/items" {
			s.cartCalls.Add(1)
		}
		handler(w, r)
	}))
	t.Cleanup(s.http.Close)

	s.cfg = &config.Config{
		Backend: config.BackendConfig{BaseURL: s.http.URL, TimeoutSeconds: 5, LongTimeoutSecs: 5},
		Geo:     config.GeoConfig{BaseURL: s.http.URL, FailurePolicy: config.GeoFailureEmpty},
		Auth: config.AuthConfig{
			ExpiryGraceSeconds: 5,
			AdminRoles:         []string{"ROLE_ADMIN", "ADMIN"},
			LoginRoute:         "/login",
			ForbiddenRoute:     "/forbidden",
			KeepReturnPath:     true,
		},
		Cart: config.CartConfig{Retries: 0, RequestTimeoutSec: 5},
	}
	return s
}

func (s *stack) client(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), s.cfg, zap.NewNop(), app.Options{
		Storage:    s.store,
		HTTPClient: s.http.Client(),
	})
	require.NoError(t, err)
	return a
}

func TestLogin_EstablishesSessionAndRefreshesCartOnce(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	info, err := a.Auth.Login(ctx, "customer", "customer123")
	require.NoError(t, err)

	assert.Equal(t, "customer", info.Username)
	assert.True(t, info.Role.Has("ROLE_USER"))
	assert.False(t, info.Role.Has("ROLE_ADMIN"))

	token, err := s.store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	snap := a.Session.State().Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "customer", snap.Username)
	assert.Equal(t, int32(1), s.cartCalls.Load())
	assert.Equal(t, 0, a.Cart.Count())

	_, err = a.Gateway.Cart.Add(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, a.Cart.UpdateCartCount(ctx))
	assert.Equal(t, 1, a.Cart.Count())
}

func TestLogin_WrongPasswordLeavesNoSession(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	_, err := a.Auth.Login(ctx, "customer", "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthenticated))
	assert.Equal(t, "wrong username or password", apperrors.ToDomainError(err).Message)

	assert.False(t, a.Session.HasCredential(ctx))
	assert.Equal(t, int32(0), s.cartCalls.Load())
}

func TestLogout_ClearsSessionEvenWhenBackendIsDown(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	_, err := a.Auth.Login(ctx, "customer", "customer123")
	require.NoError(t, err)
	_, err = a.Gateway.Cart.Add(ctx, 1, 1)
	require.NoError(t, err)
	a.Cart.UpdateCartCount(ctx)
	require.Equal(t, 1, a.Cart.Count())

	s.http.Close()

	_, err = a.Auth.Logout(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNetworkUnreachable))

	assert.False(t, a.Session.HasCredential(ctx))
	assert.False(t, a.Session.State().IsLoggedIn())
	assert.Equal(t, 0, a.Cart.Count())
	_, err = s.store.Get(ctx, storage.KeyUserInfo)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRejectedCredential_TearsDownSession(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "customer",
		"role": []map[string]string{{"authority": "ROLE_USER"}},
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	raw, err := forged.SignedString([]byte("someone-else"))
	require.NoError(t, err)
	_, err = a.Session.Establish(ctx, raw)
	require.NoError(t, err)

	_, err = a.Gateway.Users.Profile(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))
	assert.False(t, a.Session.HasCredential(ctx))
	assert.False(t, a.Session.State().IsLoggedIn())
}

func TestRestore_ResumesPersistedSession(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	first := s.client(t)
	_, err := first.Auth.Login(ctx, "customer", "customer123")
	require.NoError(t, err)
	_, err = first.Gateway.Cart.Add(ctx, 4, 1)
	require.NoError(t, err)

	second := s.client(t)
	assert.True(t, second.Session.State().IsLoggedIn())
	assert.Equal(t, 1, second.Cart.Count())
	assert.Equal(t, int32(2), s.cartCalls.Load())
}

func TestCurrentUser_MergesProfileAndCredential(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	_, err := a.Auth.CurrentUser(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthenticated))

	_, err = a.Auth.Login(ctx, "admin", "admin123")
	require.NoError(t, err)

	profile, err := a.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
	assert.Equal(t, "admin@example.com", profile.Email)
	assert.True(t, profile.Role.Has("ROLE_ADMIN"))
}

func TestRegister_RequiresConfirmationBeforeLogin(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	msg, err := a.Auth.Register(ctx, domain.Registration{
		Username: "lan",
		Email:    "lan@example.com",
		Password: "secret123",
		FullName: "Trần Thị Lan",
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "confirm")

	_, err = a.Auth.Login(ctx, "lan", "secret123")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	account, err := s.server.Repositories.Users.GetByUsername(ctx, "lan")
	require.NoError(t, err)
	mails := s.server.Outbox.Sent()
	require.Len(t, mails, 1)
	assert.Equal(t, "lan@example.com", mails[0].To)
	assert.Contains(t, mails[0].Body, account.SecretCode)

	_, err = a.Auth.ConfirmEmail(ctx, account.SecretCode)
	require.NoError(t, err)

	info, err := a.Auth.Login(ctx, "lan", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "lan", info.Username)

	_, err = a.Auth.Register(ctx, domain.Registration{Username: "lan", Email: "other@example.com", Password: "x"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBackendRejected))
}

func TestGuard_FollowsSessionRoles(t *testing.T) {
	s := newStack(t)
	a := s.client(t)
	ctx := context.Background()

	decision := a.Guard.Evaluate(ctx, "/admin/dashboard")
	assert.Equal(t, router.RedirectLoginWithReturn, decision.Outcome)
	assert.Equal(t, "/login?redirect=%2Fadmin%2Fdashboard", decision.Location)

	_, err := a.Auth.Login(ctx, "customer", "customer123")
	require.NoError(t, err)
	assert.Equal(t, router.RedirectForbidden, a.Guard.Evaluate(ctx, "/admin/dashboard").Outcome)
	assert.Equal(t, router.Proceed, a.Guard.Evaluate(ctx, "/orders/7").Outcome)

	_, err = a.Auth.Logout(ctx)
	require.NoError(t, err)
	_, err = a.Auth.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, router.Proceed, a.Guard.Evaluate(ctx, "/admin/dashboard").Outcome)
}
