// Package router holds the navigation route table and the guard evaluated
// before every navigation.
package router

import (
	"fmt"
	"net/http"
	"net/url"
	pathpkg "path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Route declares a navigable destination. Children inherit their parent's flags.
type Route struct {
	Path          string
	Name          string
	RequiresAuth  bool
	RequiresAdmin bool
	Children      []Route
}

// Meta is the resolved requirement set for a destination.
type Meta struct {
	Name          string
	Pattern       string
	RequiresAuth  bool
	RequiresAdmin bool
}

// Table resolves paths to route metadata using a chi routing tree.
type Table struct {
	mux  *chi.Mux
	meta map[string]Meta
}

var noop = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// NewTable flattens routes into a matcher.
func NewTable(routes []Route) (table *Table, err error) {
	table = &Table{mux: chi.NewRouter(), meta: make(map[string]Meta)}

	// chi panics on malformed or conflicting patterns.
	defer func() {
		if r := recover(); r != nil {
			table, err = nil, fmt.Errorf("router: %v", r)
		}
	}()

	for _, route := range routes {
		if err := table.add("", Meta{}, route); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// MustTable is NewTable for static tables.
func MustTable(routes []Route) *Table {
	table, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return table
}

func (t *Table) add(prefix string, parent Meta, route Route) error {
	pattern := joinPath(prefix, route.Path)
	meta := Meta{
		Name:          route.Name,
		Pattern:       pattern,
		RequiresAuth:  parent.RequiresAuth || route.RequiresAuth || route.RequiresAdmin,
		RequiresAdmin: parent.RequiresAdmin || route.RequiresAdmin,
	}
	key := lowerLiterals(pattern)
	if _, dup := t.meta[key]; dup {
		return fmt.Errorf("router: duplicate route %q", pattern)
	}
	t.meta[key] = meta
	t.mux.Get(key, noop)

	for _, child := range route.Children {
		if err := t.add(pattern, meta, child); err != nil {
			return err
		}
	}
	return nil
}

// Match resolves path. Unknown paths report false.
func (t *Table) Match(path string) (Meta, bool) {
	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, normalizePath(path)) {
		return Meta{}, false
	}
	if len(rctx.RoutePatterns) == 0 {
		return Meta{}, false
	}
	meta, ok := t.meta[rctx.RoutePatterns[len(rctx.RoutePatterns)-1]]
	return meta, ok
}

func joinPath(prefix, p string) string {
	if strings.HasPrefix(p, "/") || prefix == "" {
		return cleanPath(p)
	}
	return cleanPath(strings.TrimSuffix(prefix, "/") + "/" + p)
}

// normalizePath reduces a navigation target to the form patterns are
// registered in: no query or fragment, unescaped, cleaned and lower case.
func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	return strings.ToLower(cleanPath(p))
}

func cleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return pathpkg.Clean(p)
}

// lowerLiterals lower-cases a pattern except for its {param} names.
func lowerLiterals(pattern string) string {
	var b strings.Builder
	depth := 0
	for _, r := range pattern {
		switch {
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		}
		if depth == 0 {
			b.WriteString(strings.ToLower(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StorefrontRoutes is the storefront navigation table.
func StorefrontRoutes() []Route {
	return []Route{
		{Path: "/", Name: "home"},
		{Path: "/about", Name: "about"},
		{Path: "/shop", Name: "shop"},
		{Path: "/product/{productId}", Name: "productDetail"},
		{Path: "/login", Name: "login"},
		{Path: "/register", Name: "register"},
		{Path: "/confirm-email", Name: "confirmEmail"},
		{Path: "/forbidden", Name: "forbidden"},
		{Path: "/cart", Name: "cart", RequiresAuth: true},
		{Path: "/checkout", Name: "checkout", RequiresAuth: true},
		{Path: "/orders", Name: "orders", RequiresAuth: true, Children: []Route{
			{Path: "{orderId}", Name: "orderDetail"},
		}},
		{Path: "/profile", Name: "profile", RequiresAuth: true},
		{Path: "/admin", Name: "admin", RequiresAuth: true, RequiresAdmin: true, Children: []Route{
			{Path: "dashboard", Name: "adminDashboard"},
			{Path: "users", Name: "adminUsers"},
			{Path: "users/{userId}", Name: "adminUserDetail"},
			{Path: "orders", Name: "adminOrders"},
			{Path: "products", Name: "adminProducts"},
			{Path: "categories", Name: "adminCategories"},
		}},
	}
}
