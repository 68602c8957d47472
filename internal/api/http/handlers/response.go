package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/vnshop/storefront/internal/api/dto"
	"github.com/vnshop/storefront/internal/auth"
	"github.com/vnshop/storefront/internal/service"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(dto.Envelope{Status: status, Message: message, Data: data})
}

func ok(c *fiber.Ctx, data any) error {
	return respond(c, http.StatusOK, "success", data)
}

func done(c *fiber.Ctx, message string) error {
	return respond(c, http.StatusOK, message, nil)
}

func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthenticated("authentication required")
	}
	return service.Actor{
		UserID:  principal.Account.ID,
		IsAdmin: principal.Roles.Has("ROLE_ADMIN"),
	}, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}
