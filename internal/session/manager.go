package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/auth"
	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/events"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// CartResetter is the part of the cart badge a teardown needs.
type CartResetter interface {
	Reset(ctx context.Context)
}

// Manager coordinates the credential, the session state and the cart badge.
// Every path that invalidates a credential goes through Teardown.
type Manager struct {
	tokens *auth.TokenStore
	state  *State
	cart   CartResetter
	events events.Dispatcher
	logger *zap.Logger

	mu sync.Mutex
}

// NewManager wires a manager. cart may be nil until SetCart is called.
func NewManager(tokens *auth.TokenStore, state *State, cart CartResetter, dispatcher events.Dispatcher, logger *zap.Logger) *Manager {
	return &Manager{
		tokens: tokens,
		state:  state,
		cart:   cart,
		events: dispatcher,
		logger: logger,
	}
}

// SetCart attaches the cart badge once it exists.
func (m *Manager) SetCart(cart CartResetter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = cart
}

// State exposes the observable session state.
func (m *Manager) State() *State {
	return m.state
}

// Tokens exposes the underlying token store.
func (m *Manager) Tokens() *auth.TokenStore {
	return m.tokens
}

// Establish persists a freshly issued credential and records the identity.
func (m *Manager) Establish(ctx context.Context, raw string) (*domain.UserInfo, error) {
	if raw == "" {
		return nil, apperrors.NewMalformedResponse("login", errors.New("missing access token"))
	}

	m.mu.Lock()
	if err := m.tokens.SetToken(ctx, raw); err != nil {
		m.mu.Unlock()
		return nil, apperrors.NewInternalError(err)
	}
	info, ok := m.tokens.UserInfo(ctx)
	if !ok {
		m.mu.Unlock()
		m.Teardown(ctx, events.ReasonInvalid)
		return nil, apperrors.NewMalformedResponse("login", errors.New("access token could not be decoded"))
	}
	m.state.SetUserInfo(info.Username, info.Role)
	m.mu.Unlock()

	m.logger.Info("session established", zap.String("username", info.Username))
	m.publish(ctx, events.New(events.EventSessionStarted, events.SessionStartedPayload{
		Username: info.Username,
		UserID:   info.UserID,
		Roles:    info.Role,
	}))
	return info, nil
}

// Restore initializes the state from persisted storage at process start.
// It reports whether a valid session was found.
func (m *Manager) Restore(ctx context.Context) bool {
	if !m.tokens.HasToken(ctx) {
		m.state.ClearUserInfo()
		m.resetCart(ctx)
		return false
	}
	if m.tokens.IsTokenExpired(ctx) {
		m.Teardown(ctx, events.ReasonExpired)
		return false
	}
	info, ok := m.tokens.UserInfo(ctx)
	if !ok || info.Username == "" {
		m.Teardown(ctx, events.ReasonInvalid)
		return false
	}
	m.state.SetUserInfo(info.Username, info.Role)
	return true
}

// Teardown removes the credential and everything derived from it, clears the
// state and resets the cart badge. It is idempotent.
func (m *Manager) Teardown(ctx context.Context, reason events.ClearReason) {
	m.mu.Lock()
	if err := m.tokens.RemoveToken(ctx); err != nil {
		m.logger.Error("removing credential failed", zap.Error(err), zap.String("reason", string(reason)))
	}
	m.state.ClearUserInfo()
	m.mu.Unlock()

	m.resetCart(ctx)
	m.logger.Info("session cleared", zap.String("reason", string(reason)))
	m.publish(ctx, events.New(events.EventSessionCleared, events.SessionClearedPayload{Reason: reason}))
}

// ExpireIfNeeded tears the session down when a persisted credential has expired.
// Without a credential it does nothing and returns false.
func (m *Manager) ExpireIfNeeded(ctx context.Context) bool {
	if !m.tokens.HasToken(ctx) {
		return false
	}
	if !m.tokens.IsTokenExpired(ctx) {
		return false
	}
	m.Teardown(ctx, events.ReasonExpired)
	return true
}

// HasCredential reports whether a credential is persisted.
func (m *Manager) HasCredential(ctx context.Context) bool {
	return m.tokens.HasToken(ctx)
}

// Roles returns the session roles, falling back to the persisted user-info.
func (m *Manager) Roles(ctx context.Context) domain.RoleSet {
	if snap := m.state.Snapshot(); snap.Authenticated && len(snap.Roles) > 0 {
		return snap.Roles
	}
	if info, ok := m.tokens.UserInfo(ctx); ok {
		return info.Role
	}
	return domain.RoleSet{}
}

// HandleUnauthorized is invoked by the gateway when the backend rejects the credential.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	m.Teardown(ctx, events.ReasonUnauthorized)
}

func (m *Manager) resetCart(ctx context.Context) {
	m.mu.Lock()
	cart := m.cart
	m.mu.Unlock()
	if cart != nil {
		cart.Reset(ctx)
	}
}

func (m *Manager) publish(ctx context.Context, event events.Event) {
	if m.events == nil {
		return
	}
	_ = m.events.Publish(ctx, event)
}
