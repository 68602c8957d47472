package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/gateway"
	"github.com/vnshop/storefront/internal/session"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// CartRefresher refreshes the cart badge once a session is available.
type CartRefresher interface {
	Initialize(ctx context.Context)
}

// AuthService coordinates the client's login, logout and account flows.
type AuthService struct {
	users    *gateway.UserResource
	sessions *session.Manager
	cart     CartRefresher
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(users *gateway.UserResource, sessions *session.Manager, cart CartRefresher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, sessions: sessions, cart: cart, logger: logger}
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.UserInfo, error) {
	token, err := s.users.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, token)
}

// LoginWithGoogle exchanges a Google ID token for a session.
func (s *AuthService) LoginWithGoogle(ctx context.Context, googleToken string) (*domain.UserInfo, error) {
	token, err := s.users.LoginWithGoogle(ctx, googleToken)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, token)
}

func (s *AuthService) start(ctx context.Context, token string) (*domain.UserInfo, error) {
	info, err := s.sessions.Establish(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.cart != nil {
		s.cart.Initialize(ctx)
	}
	return info, nil
}

// Logout notifies the backend and always clears the local session.
func (s *AuthService) Logout(ctx context.Context) (string, error) {
	msg, err := s.users.Logout(ctx)
	if err != nil {
		s.logger.Warn("backend logout failed, clearing local session anyway", zap.Error(err))
	}
	s.sessions.Teardown(ctx, events.ReasonLogout)
	return msg, err
}

// Restore loads a persisted session and refreshes the cart when it is still valid.
func (s *AuthService) Restore(ctx context.Context) bool {
	if !s.sessions.Restore(ctx) {
		return false
	}
	if s.cart != nil {
		s.cart.Initialize(ctx)
	}
	return true
}

// Register creates an account. The backend sends the confirmation code out of band.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (string, error) {
	return s.users.Register(ctx, reg)
}

// ConfirmEmail activates a registered account.
func (s *AuthService) ConfirmEmail(ctx context.Context, secretCode string) (string, error) {
	return s.users.ConfirmEmail(ctx, secretCode)
}

// CurrentUser returns the backend profile merged with the identity decoded from the credential.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.Profile, error) {
	if !s.sessions.HasCredential(ctx) {
		return nil, apperrors.NewUnauthenticated("you are not logged in")
	}
	if s.sessions.ExpireIfNeeded(ctx) {
		return nil, apperrors.NewSessionExpired()
	}

	user, err := s.users.Profile(ctx)
	if err != nil {
		return nil, err
	}
	profile := &domain.Profile{User: *user, Role: domain.RoleSet{}}
	if info, ok := s.sessions.Tokens().UserInfo(ctx); ok {
		if info.Username != "" {
			profile.Username = info.Username
		}
		profile.Role = info.Role
	}
	return profile, nil
}
