package router

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/domain"
)

// Outcome is the terminal result of one navigation attempt.
type Outcome int

const (
	Proceed Outcome = iota
	RedirectLogin
	RedirectLoginWithReturn
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "redirect-to-login"
	case RedirectLoginWithReturn:
		return "redirect-to-login-with-return-path"
	case RedirectForbidden:
		return "redirect-to-forbidden"
	default:
		return "unknown"
	}
}

// Decision carries the outcome and where to go instead, if anywhere.
type Decision struct {
	Outcome  Outcome
	Location string
}

// SessionView is what the guard reads from the session.
type SessionView interface {
	HasCredential(ctx context.Context) bool
	ExpireIfNeeded(ctx context.Context) bool
	Roles(ctx context.Context) domain.RoleSet
}

// GuardConfig controls redirects and the admin markers.
type GuardConfig struct {
	LoginRoute     string
	ForbiddenRoute string
	AdminRoles     []string
	KeepReturnPath bool
}

// Guard evaluates navigation attempts independently of each other.
type Guard struct {
	table   *Table
	session SessionView
	cfg     GuardConfig
	logger  *zap.Logger
}

// NewGuard builds a guard, filling unset config with storefront defaults.
func NewGuard(table *Table, session SessionView, cfg GuardConfig, logger *zap.Logger) *Guard {
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = "/login"
	}
	if cfg.ForbiddenRoute == "" {
		cfg.ForbiddenRoute = "/forbidden"
	}
	if len(cfg.AdminRoles) == 0 {
		cfg.AdminRoles = []string{"ROLE_ADMIN", "ADMIN"}
	}
	return &Guard{table: table, session: session, cfg: cfg, logger: logger}
}

// Evaluate decides whether navigation to path may proceed.
func (g *Guard) Evaluate(ctx context.Context, path string) Decision {
	if g.session.ExpireIfNeeded(ctx) {
		g.logger.Info("credential expired during navigation", zap.String("path", path))
		return Decision{Outcome: RedirectLogin, Location: g.cfg.LoginRoute}
	}

	meta, _ := g.table.Match(path)

	if meta.RequiresAuth && !g.session.HasCredential(ctx) {
		if g.cfg.KeepReturnPath {
			return Decision{
				Outcome:  RedirectLoginWithReturn,
				Location: g.cfg.LoginRoute + "?redirect=" + url.QueryEscape(path),
			}
		}
		return Decision{Outcome: RedirectLogin, Location: g.cfg.LoginRoute}
	}

	if meta.RequiresAdmin && !g.session.Roles(ctx).HasAny(g.cfg.AdminRoles...) {
		return Decision{Outcome: RedirectForbidden, Location: g.cfg.ForbiddenRoute}
	}

	return Decision{Outcome: Proceed, Location: path}
}
