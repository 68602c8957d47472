package service

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/auth"
	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/events"
	"github.com/vnshop/storefront/internal/repository"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// Actor identifies the caller of a devserver operation.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// AccountService implements the devserver's account and login flows.
type AccountService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	events     events.Dispatcher
	logger     *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.DevServerConfig, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AccountService {
	return &AccountService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		events:     dispatcher,
		logger:     logger,
	}
}

// TokenManager exposes the signer for the auth middleware.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// HashPassword hashes with the configured cost.
func (s *AccountService) HashPassword(password string) (string, error) {
	return auth.HashPassword(password, s.bcryptCost)
}

// Register creates an unconfirmed account and returns its confirmation code.
func (s *AccountService) Register(ctx context.Context, reg domain.Registration) (*repository.Account, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}

	hash, err := s.HashPassword(reg.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &repository.Account{
		User: domain.User{
			Username: reg.Username,
			Email:    reg.Email,
			FullName: reg.FullName,
			Phone:    reg.Phone,
			Type:     "USER",
			Status:   domain.UserStatusPending,
		},
		PasswordHash: hash,
		SecretCode:   uuid.NewString(),
	}
	if err := s.users.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("username or email already registered", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("account registered, confirmation pending", zap.String("username", account.Username))
	if s.events != nil {
		_ = s.events.Publish(ctx, events.New(events.EventAccountRegistered, events.AccountRegisteredPayload{
			UserID:     account.ID,
			Username:   account.Username,
			Email:      account.Email,
			SecretCode: account.SecretCode,
		}))
	}
	return account, nil
}

// ConfirmEmail activates the account holding code.
func (s *AccountService) ConfirmEmail(ctx context.Context, code string) error {
	account, err := s.users.GetBySecretCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("confirmation code", nil)
		}
		return apperrors.MapError(err)
	}
	account.Confirmed = true
	account.SecretCode = ""
	account.Status = domain.UserStatusActive
	return s.users.Update(ctx, account)
}

// Login verifies credentials and issues a token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	account, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", time.Time{}, apperrors.NewUnauthenticated("wrong username or password")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthenticated("wrong username or password")
	}
	return s.issue(account)
}

// LoginWithGoogle accepts a Google ID token, provisioning an account for its email.
// The devserver reads the token's claims without verifying them against Google.
func (s *AccountService) LoginWithGoogle(ctx context.Context, googleToken string) (string, time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(googleToken, claims); err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return "", time.Time{}, apperrors.NewUnauthenticated("invalid Google token")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", time.Time{}, apperrors.NewUnauthenticated("Google token carries no email")
	}

	account, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		name, _ := claims["name"].(string)
		account = &repository.Account{
			User: domain.User{
				Username: strings.SplitN(email, "@", 2)[0],
				Email:    email,
				FullName: name,
				Type:     "USER",
				Status:   domain.UserStatusActive,
			},
			Confirmed: true,
		}
		if err := s.users.Create(ctx, account); err != nil {
			return "", time.Time{}, apperrors.NewConflict("could not provision Google account", nil)
		}
	} else if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}
	return s.issue(account)
}

func (s *AccountService) issue(account *repository.Account) (string, time.Time, error) {
	if !account.Confirmed {
		return "", time.Time{}, apperrors.NewForbidden("please confirm your email before logging in")
	}
	if account.Status == domain.UserStatusInactive {
		return "", time.Time{}, apperrors.NewForbidden("this account has been disabled")
	}
	token, exp, err := s.tokenMgr.GenerateToken(account.Username, account.ID, account.Roles())
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// Get returns an account.
func (s *AccountService) Get(ctx context.Context, id int64) (*repository.Account, error) {
	account, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// List returns one page of accounts.
func (s *AccountService) List(ctx context.Context, page, size int, keyword string) (domain.UserPage, error) {
	return s.users.List(ctx, page, size, keyword)
}

// Update applies changes. Users may edit their own profile fields; only admins
// may edit other accounts or change type and status.
func (s *AccountService) Update(ctx context.Context, actor Actor, changes domain.User) error {
	targetID := changes.ID
	if targetID == 0 {
		targetID = actor.UserID
	}
	if targetID != actor.UserID && !actor.IsAdmin {
		return apperrors.NewForbidden("you may only update your own profile")
	}

	account, err := s.Get(ctx, targetID)
	if err != nil {
		return err
	}
	if changes.Email != "" {
		account.Email = changes.Email
	}
	if changes.FullName != "" {
		account.FullName = changes.FullName
	}
	if changes.Phone != "" {
		account.Phone = changes.Phone
	}
	if actor.IsAdmin {
		if changes.Type != "" {
			account.Type = strings.TrimPrefix(strings.ToUpper(changes.Type), "ROLE_")
		}
		if changes.Status != "" {
			account.Status = changes.Status
		}
	}
	return s.users.Update(ctx, account)
}

// Delete removes an account. Admins cannot delete themselves.
func (s *AccountService) Delete(ctx context.Context, actor Actor, id int64) error {
	if id == actor.UserID {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Count returns the number of accounts.
func (s *AccountService) Count(ctx context.Context) int64 {
	return s.users.Count(ctx)
}
