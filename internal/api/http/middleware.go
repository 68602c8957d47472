package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/api/dto"
	"github.com/vnshop/storefront/internal/observability"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(dto.ErrorEnvelope{
					Status:  domainErr.HTTPStatus,
					Message: domainErr.Message,
					Error: dto.ErrorBody{
						Code:    domainErr.Code,
						Message: domainErr.Message,
						Details: domainErr.Details,
					},
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError maps fiber's own errors (unknown route, role gate) by status.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := apperrors.CodeBackendRejected
		switch fiberErr.Code {
		case http.StatusUnauthorized:
			code = apperrors.CodeUnauthenticated
		case http.StatusForbidden:
			code = apperrors.CodeForbidden
		case http.StatusNotFound:
			code = apperrors.CodeNotFound
		case http.StatusBadRequest:
			code = apperrors.CodeValidationFailed
		}
		return apperrors.NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus == 0 {
		withStatus := *domainErr
		withStatus.HTTPStatus = http.StatusInternalServerError
		return &withStatus
	}
	return domainErr
}
