package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/api/dto"
	"github.com/vnshop/storefront/internal/service"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// AuthHandler exposes the login endpoints.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}

	token, exp, err := h.accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{AccessToken: token, ExpiresAt: exp})
}

// Google handles POST /auth/google.
func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	token, exp, err := h.accounts.LoginWithGoogle(c.UserContext(), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{AccessToken: token, ExpiresAt: exp})
}

// Logout handles POST /auth/logout. Tokens are stateless so there is nothing to revoke.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return done(c, "logged out")
}
