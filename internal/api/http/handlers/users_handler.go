package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/api/dto"
	"github.com/vnshop/storefront/internal/service"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Register handles POST /user/add.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Register(c.UserContext(), req.Registration())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated,
		"registration successful, please check your email to confirm your account",
		dto.UserResponse(account))
}

// ConfirmEmail handles GET /user/confirm-email?secretCode=.
func (h *UsersHandler) ConfirmEmail(c *fiber.Ctx) error {
	code := c.Query("secretCode")
	if code == "" {
		return apperrors.NewValidationError("secretCode required", nil)
	}
	if err := h.accounts.ConfirmEmail(c.UserContext(), code); err != nil {
		return err
	}
	return done(c, "email confirmed, you can now log in")
}

// Profile handles GET /user/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return ok(c, dto.UserResponse(account))
}

// Update handles PUT /user/upd.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.accounts.Update(c.UserContext(), actor, req.User()); err != nil {
		return err
	}
	return done(c, "user updated")
}

// List handles GET /user/list.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := h.accounts.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("size", 10), c.Query("keyword"))
	if err != nil {
		return err
	}
	return ok(c, page)
}

// Get handles GET /user/{id}.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.UserResponse(account))
}

// Delete handles DELETE /user/del/{id}.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.accounts.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return done(c, "user deleted")
}
