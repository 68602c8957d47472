package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/domain"
)

type fakeSession struct {
	credential bool
	expired    bool
	roles      domain.RoleSet
	expiries   int
}

func (f *fakeSession) HasCredential(context.Context) bool { return f.credential }

func (f *fakeSession) ExpireIfNeeded(context.Context) bool {
	if f.credential && f.expired {
		f.expiries++
		f.credential = false
		f.roles = nil
		return true
	}
	return false
}

func (f *fakeSession) Roles(context.Context) domain.RoleSet { return f.roles }

func newGuard(s SessionView, keepReturn bool) *Guard {
	return NewGuard(MustTable(StorefrontRoutes()), s, GuardConfig{KeepReturnPath: keepReturn}, zap.NewNop())
}

func TestTable_Match(t *testing.T) {
	table := MustTable(StorefrontRoutes())

	cases := []struct {
		path    string
		pattern string
		auth    bool
		admin   bool
	}{
		{"/", "/", false, false},
		{"/product/42", "/product/{productId}", false, false},
		{"/cart/", "/cart", true, false},
		{"/orders/17?tab=items", "/orders/{orderId}", true, false},
		{"/admin", "/admin", true, true},
		{"/admin/users/3", "/admin/users/{userId}", true, true},
	}
	for _, tc := range cases {
		meta, ok := table.Match(tc.path)
		require.True(t, ok, tc.path)
		assert.Equal(t, tc.pattern, meta.Pattern, tc.path)
		assert.Equal(t, tc.auth, meta.RequiresAuth, tc.path)
		assert.Equal(t, tc.admin, meta.RequiresAdmin, tc.path)
	}

	_, ok := table.Match("/no/such/page")
	assert.False(t, ok)
}

func TestTable_MatchNormalizesPath(t *testing.T) {
	table := MustTable(StorefrontRoutes())

	for _, path := range []string{"/Admin/users", "/ADMIN", "//admin/users", "/admin//users", "/%61dmin/users", "/admin/./users/../users", "/Cart"} {
		meta, ok := table.Match(path)
		require.True(t, ok, path)
		assert.True(t, meta.RequiresAuth, path)
	}

	meta, ok := table.Match("/Product/42")
	require.True(t, ok)
	assert.Equal(t, "/product/{productId}", meta.Pattern)
}

func TestGuard_PathVariantsOfProtectedRoutesAreGuarded(t *testing.T) {
	g := newGuard(&fakeSession{}, true)

	for _, path := range []string{"/Admin/users", "/ADMIN", "//admin/users", "/admin//users", "/%61dmin/users", "/Cart"} {
		d := g.Evaluate(context.Background(), path)
		assert.Equal(t, RedirectLoginWithReturn, d.Outcome, path)
	}

	user := newGuard(&fakeSession{credential: true, roles: domain.RoleSet{"ROLE_USER"}}, true)
	assert.Equal(t, RedirectForbidden, user.Evaluate(context.Background(), "/%61dmin/Users").Outcome)
}

func TestNewTable_RejectsCaseInsensitiveDuplicates(t *testing.T) {
	_, err := NewTable([]Route{{Path: "/About"}, {Path: "/about"}})
	assert.Error(t, err)
}

func TestNewTable_RejectsDuplicates(t *testing.T) {
	_, err := NewTable([]Route{{Path: "/a"}, {Path: "/a"}})
	assert.Error(t, err)
}

func TestGuard_AdminRouteWithUserRoleIsForbidden(t *testing.T) {
	s := &fakeSession{credential: true, roles: domain.RoleSet{"ROLE_USER"}}

	d := newGuard(s, true).Evaluate(context.Background(), "/admin/dashboard")
	assert.Equal(t, RedirectForbidden, d.Outcome)
	assert.Equal(t, "/forbidden", d.Location)
}

func TestGuard_AdminRouteWithAdminMarkerProceeds(t *testing.T) {
	for _, role := range []string{"ROLE_ADMIN", "ADMIN"} {
		s := &fakeSession{credential: true, roles: domain.RoleSet{"ROLE_USER", role}}
		d := newGuard(s, true).Evaluate(context.Background(), "/admin/users")
		assert.Equal(t, Proceed, d.Outcome, role)
	}
}

func TestGuard_AuthRouteWithoutCredentialKeepsReturnPath(t *testing.T) {
	d := newGuard(&fakeSession{}, true).Evaluate(context.Background(), "/orders/5")

	assert.Equal(t, RedirectLoginWithReturn, d.Outcome)
	assert.Equal(t, "/login?redirect=%2Forders%2F5", d.Location)
}

func TestGuard_AuthRouteWithoutCredentialPlainRedirect(t *testing.T) {
	d := newGuard(&fakeSession{}, false).Evaluate(context.Background(), "/cart")

	assert.Equal(t, RedirectLogin, d.Outcome)
	assert.Equal(t, "/login", d.Location)
}

func TestGuard_PublicRouteWithoutCredentialProceeds(t *testing.T) {
	g := newGuard(&fakeSession{}, true)

	for _, path := range []string{"/", "/shop", "/product/9", "/somewhere/unknown"} {
		assert.Equal(t, Proceed, g.Evaluate(context.Background(), path).Outcome, path)
	}
}

func TestGuard_ExpiredCredentialRedirectsEvenOnPublicRoute(t *testing.T) {
	s := &fakeSession{credential: true, expired: true, roles: domain.RoleSet{"ROLE_ADMIN"}}

	d := newGuard(s, true).Evaluate(context.Background(), "/shop")
	assert.Equal(t, RedirectLogin, d.Outcome)
	assert.Equal(t, 1, s.expiries)

	d = newGuard(s, true).Evaluate(context.Background(), "/shop")
	assert.Equal(t, Proceed, d.Outcome)
	assert.Equal(t, 1, s.expiries)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "redirect-to-forbidden", RedirectForbidden.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
